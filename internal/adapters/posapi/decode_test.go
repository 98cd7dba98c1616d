package posapi

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty", "", ""},
		{"error wins", `{"error":"e","detail":"d"}`, "e"},
		{"detail", `{"detail":" d "}`, "d"},
		{"message", `{"message":"m"}`, "m"},
		{"non field", `{"non_field_errors":["first","second"]}`, "first"},
		{"field errors only", `{"username":["required"]}`, ""},
		{"array body", `["x"]`, ""},
		{"html", "<!doctype html><p>502</p>", ""},
		{"plain", "  upstream gone \n", "upstream gone"},
		{"error list", `{"error":["listed"]}`, "listed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorMessage([]byte(tt.body)))
		})
	}
}

type item struct {
	ID int64 `json:"id"`
}

func TestDecodeList(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		page, err := decodeList[item]([]byte(`[{"id":1},{"id":2}]`))
		require.NoError(t, err)
		assert.Equal(t, 2, page.Count)
		assert.Equal(t, []item{{ID: 1}, {ID: 2}}, page.Results)
		assert.False(t, page.HasNext())
	})

	t.Run("envelope", func(t *testing.T) {
		body := `{"count":30,"next":"https://x/api/stores/?page=2","previous":null,"results":[{"id":5}]}`
		page, err := decodeList[item]([]byte(body))
		require.NoError(t, err)
		assert.Equal(t, 30, page.Count)
		assert.True(t, page.HasNext())
		assert.Empty(t, page.Previous)
		assert.Equal(t, []item{{ID: 5}}, page.Results)
	})

	t.Run("empty array", func(t *testing.T) {
		page, err := decodeList[item]([]byte(`[]`))
		require.NoError(t, err)
		assert.NotNil(t, page.Results)
		assert.Empty(t, page.Results)
	})

	t.Run("errors", func(t *testing.T) {
		for _, body := range []string{`not json`, `{"count":1}`, `[{"id":"x"}]`} {
			_, err := decodeList[item]([]byte(body))
			assert.Error(t, err, body)
		}
	})
}

func TestTokenExpiry(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(time.Hour), tokenExpiry("ignored", 3600, now))

	exp := now.Add(15 * time.Minute).Truncate(time.Second)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("any key"))
	require.NoError(t, err)
	assert.True(t, exp.Equal(tokenExpiry(tok, 0, now)))

	assert.True(t, tokenExpiry("opaque-token", 0, now).IsZero())

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1"}).SignedString([]byte("k"))
	require.NoError(t, err)
	assert.True(t, tokenExpiry(noExp, 0, now).IsZero())
}
