package posapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	jmespath "github.com/jmespath-community/go-jmespath"
	"github.com/target/pos-console/internal/domain/model"
	"github.com/tidwall/gjson"
)

// messageExpr picks the first human-readable reason the API sends.
const messageExpr = "error || detail || message || non_field_errors[0]"

// errorMessage extracts the server's reason from an error body. Plain-text
// bodies are returned trimmed; HTML error pages are ignored.
func errorMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		if strings.HasPrefix(trimmed, "<") {
			return ""
		}
		return trimmed
	}
	if _, ok := data.(map[string]any); !ok {
		return ""
	}
	v, err := jmespath.Search(messageExpr, data)
	if err != nil {
		return ""
	}
	switch msg := v.(type) {
	case string:
		return strings.TrimSpace(msg)
	case []any:
		if len(msg) > 0 {
			if s, ok := msg[0].(string); ok {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// decodeList accepts either a bare JSON array or a paginated envelope with a
// results array.
func decodeList[T any](body []byte) (model.Page[T], error) {
	if !gjson.ValidBytes(body) {
		return model.Page[T]{}, errors.New("invalid JSON list response")
	}
	root := gjson.ParseBytes(body)

	var page model.Page[T]
	items := root
	if !root.IsArray() {
		items = root.Get("results")
		if !items.IsArray() {
			return model.Page[T]{}, errors.New("list response has no results array")
		}
		page.Count = int(root.Get("count").Int())
		page.Next = root.Get("next").String()
		page.Previous = root.Get("previous").String()
	}

	var decodeErr error
	page.Results = make([]T, 0, len(items.Array()))
	items.ForEach(func(_, item gjson.Result) bool {
		var v T
		if err := json.Unmarshal([]byte(item.Raw), &v); err != nil {
			decodeErr = err
			return false
		}
		page.Results = append(page.Results, v)
		return true
	})
	if decodeErr != nil {
		return model.Page[T]{}, fmt.Errorf("decode list item: %w", decodeErr)
	}
	if page.Count == 0 {
		page.Count = len(page.Results)
	}
	return page, nil
}

// tokenExpiry prefers expires_in; otherwise it reads the exp claim without
// verifying the signature, which only the API can do. Results are UTC.
func tokenExpiry(accessToken string, expiresIn int64, now time.Time) time.Time {
	if expiresIn > 0 {
		return now.Add(time.Duration(expiresIn) * time.Second).UTC()
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.UTC()
}
