package log

import (
	"encoding/hex"
	"log/slog"

	"github.com/shuv-amp/sp-differ/domain/errors"
)

// Bytes returns an attribute rendering b as lowercase hex.
func Bytes(key string, b []byte) slog.Attr {
	return slog.String(key, hex.EncodeToString(b))
}

// replaceAttr renders byte slices as hex and expands errors that carry an
// ErrorDetail into a group with message, type and code.
func replaceAttr(_ []string, attr slog.Attr) slog.Attr {
	if attr.Value.Kind() != slog.KindAny {
		return attr
	}

	switch v := attr.Value.Any().(type) {
	case []byte:
		return Bytes(attr.Key, v)
	case errors.DetailedError:
		detail := v.ToErrorDetail()
		attrs := []any{
			slog.String("message", detail.Message),
			slog.String("type", detail.Type),
		}
		if detail.Code != "" {
			attrs = append(attrs, slog.String("code", detail.Code))
		}
		return slog.Group(attr.Key, attrs...)
	}
	return attr
}
