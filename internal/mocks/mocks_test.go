package mocks

import (
	"testing"

	"github.com/target/pos-console/internal/ports"
	"go.uber.org/mock/gomock"
)

func TestMocksImplementPorts(t *testing.T) {
	ctrl := gomock.NewController(t)

	var _ ports.AuthAPI = NewMockAuthAPI(ctrl)
	var _ ports.KeyValueStore = NewMockKeyValueStore(ctrl)
	var _ ports.ChangeNotifier = NewMockChangeNotifier(ctrl)
	var _ ports.ResourceAPI = NewMockResourceAPI(ctrl)
	var _ ports.StoreDirectory = NewMockStoreDirectory(ctrl)
}
