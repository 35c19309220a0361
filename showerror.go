package xtoast

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	// FallbackErrorMessage is shown when nothing readable can be pulled out of an error value.
	FallbackErrorMessage = "Error!"

	errorTitle   = "Error"
	errorTimeout = 50 * time.Second
)

// errorMessageKeys are probed in order on structured error bodies.
var errorMessageKeys = []string{"message", "ExceptionMessage", "Message"}

// ShowError publishes an error toast for v, whatever shape it has: an error,
// a string, a JSON body, a map or a struct carrying one of the usual message
// fields. It never fails; problems are logged and a zero Record is returned.
func (b *Bus) ShowError(v any) Record {
	r, err := b.Error(With(Options{
		Title:     errorTitle,
		Body:      errorMessage(v),
		ShowClose: Bool(true),
		Timeout:   Duration(errorTimeout),
	}))
	if err != nil {
		b.logger.Warn().Err(err).Msg("xtoast: show error")
		return Record{}
	}
	return r
}

// errorMessage extracts a readable message from v. It never panics.
func errorMessage(v any) (msg string) {
	defer func() {
		if recover() != nil {
			msg = FallbackErrorMessage
		}
	}()

	switch e := v.(type) {
	case nil:
		return FallbackErrorMessage
	case string:
		if m := messageFromJSON([]byte(e)); m != "" {
			return m
		}
		if e != "" {
			return e
		}
		return FallbackErrorMessage
	case []byte:
		if m := messageFromJSON(e); m != "" {
			return m
		}
		return FallbackErrorMessage
	case json.RawMessage:
		if m := messageFromJSON(e); m != "" {
			return m
		}
		return FallbackErrorMessage
	case map[string]any:
		if m := messageFromMap(e); m != "" {
			return m
		}
		return FallbackErrorMessage
	case map[string]string:
		for _, k := range errorMessageKeys {
			if m := e[k]; m != "" {
				return m
			}
		}
		return FallbackErrorMessage
	case error:
		if m := e.Error(); m != "" {
			return m
		}
		return FallbackErrorMessage
	case fmt.Stringer:
		if m := e.String(); m != "" {
			return m
		}
		return FallbackErrorMessage
	}

	// Structs and other values: look at their JSON form.
	data, err := json.Marshal(v)
	if err != nil {
		return FallbackErrorMessage
	}
	if m := messageFromJSON(data); m != "" {
		return m
	}
	return FallbackErrorMessage
}

func messageFromJSON(data []byte) string {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return ""
	}
	return messageFromMap(m)
}

func messageFromMap(m map[string]any) string {
	for _, k := range errorMessageKeys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
