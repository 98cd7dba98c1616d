// Package mocks provides gomock implementations of the ports used by the
// session and catalog services.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	api := mocks.NewMockAuthAPI(ctrl)
//	api.EXPECT().ImpersonatePartner(gomock.Any(), gomock.Any(), int64(42)).Return(grant, nil)
package mocks

// AuthAPI: Login, Logout, ImpersonationStatus, ImpersonatePartner, ExitPartner, ImpersonateStore, ExitStore
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=auth_api_mock.go github.com/target/pos-console/internal/ports AuthAPI

// KeyValueStore and ChangeNotifier: the persisted session namespace
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=storage_mock.go github.com/target/pos-console/internal/ports KeyValueStore,ChangeNotifier

// ResourceAPI and StoreDirectory: tenant-scoped resource calls
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=resources_mock.go github.com/target/pos-console/internal/ports ResourceAPI,StoreDirectory
