package middleware

import (
	"bytes"
	"encoding/json"
	"html"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

// SanitizeAndCleanInputMiddleware strips markup from every string in a JSON body,
// nested objects and arrays included. Values stay plain text: the entity escaping
// bluemonday applies is undone, so "o'brien@example.com" reaches handlers intact.
// Never mount it on routes that verify a signature over the raw body.
func SanitizeAndCleanInputMiddleware() gin.HandlerFunc {
	policy := bluemonday.StrictPolicy()
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
			return
		}
		if len(bytes.TrimSpace(raw)) == 0 {
			c.Request.Body = io.NopCloser(bytes.NewReader(raw))
			c.Next()
			return
		}

		var body any
		if err := json.Unmarshal(raw, &body); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Malformed JSON"})
			return
		}

		cleaned, err := json.Marshal(cleanValue(policy, body))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(cleaned))
		c.Request.ContentLength = int64(len(cleaned))

		c.Next()
	}
}

func cleanValue(policy *bluemonday.Policy, v any) any {
	switch t := v.(type) {
	case string:
		return html.UnescapeString(policy.Sanitize(t))
	case map[string]any:
		for k, inner := range t {
			t[k] = cleanValue(policy, inner)
		}
		return t
	case []any:
		for i, inner := range t {
			t[i] = cleanValue(policy, inner)
		}
		return t
	default:
		return v
	}
}
