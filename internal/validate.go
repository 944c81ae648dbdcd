package internal

import (
	"context"
	"log"
	"net/http"
	"sync"

	"radio-fleet-console/internal/validation"

	"github.com/gorilla/websocket"
)

// radioIDLookup reports whether a radio with this ID already exists.
func (s *Server) radioIDLookup(ctx context.Context, value string) (bool, error) {
	radio, err := s.Radios.Get(ctx, value)
	if err != nil {
		return false, err
	}
	return radio != nil, nil
}

// serialLookup reports whether a radio with this serial already exists.
func (s *Server) serialLookup(ctx context.Context, value string) (bool, error) {
	radio, err := s.Radios.GetBySerial(ctx, value)
	if err != nil {
		return false, err
	}
	return radio != nil, nil
}

// checkRadioField runs one synchronous uniqueness check, for clients that do
// their own debouncing. field is "id" or "serienummer".
func (s *Server) checkRadioField(w http.ResponseWriter, r *http.Request) {
	field := r.URL.Query().Get("field")
	value := r.URL.Query().Get("value")

	var result validation.Result
	switch field {
	case "id":
		value = validation.NormalizeRadioID(value)
		if !validation.AcceptRadioID(value) {
			http.Error(w, "value must be exactly 4 digits", http.StatusBadRequest)
			return
		}
		result = validation.Check(r.Context(), s.radioIDLookup, value, validation.RadioIDMessages)
	case "serienummer":
		value = validation.NormalizeSerial(value)
		if !validation.AcceptSerial(value) {
			http.Error(w, "value is required", http.StatusBadRequest)
			return
		}
		result = validation.Check(r.Context(), s.serialLookup, value, validation.SerialMessages)
	default:
		http.Error(w, "field must be id or serienummer", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(_ *http.Request) bool { return true },
}

// fieldInput is one keystroke's worth of form state from the client.
type fieldInput struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// fieldUpdate is pushed back whenever a field's validation state changes.
type fieldUpdate struct {
	Field      string            `json:"field"`
	Normalized string            `json:"normalized"`
	Result     validation.Result `json:"result"`
}

// validateRadioFields is the live validation channel behind the radio form.
// The client streams {field, value} messages as the user types; the server
// debounces, runs the uniqueness lookups, and streams state updates back.
// Stale lookups are discarded, so an update always reflects the latest input.
func (s *Server) validateRadioFields(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}
	defer conn.Close()

	var writeMu sync.Mutex
	push := func(field, normalized string, result validation.Result) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(fieldUpdate{Field: field, Normalized: normalized, Result: result}); err != nil {
			log.Printf("validation push: %v", err)
		}
	}

	lastValue := map[string]string{}
	var valueMu sync.Mutex

	newValidator := func(field string, lookup validation.Lookup, normalize func(string) string, accept func(string) bool, msgs validation.Messages) *validation.FieldValidator {
		return validation.NewFieldValidator(validation.Config{
			Lookup:    lookup,
			Normalize: normalize,
			Accept:    accept,
			Messages:  msgs,
			Notify: func(result validation.Result) {
				valueMu.Lock()
				normalized := lastValue[field]
				valueMu.Unlock()
				push(field, normalized, result)
			},
		})
	}

	validators := map[string]*validation.FieldValidator{
		"id": newValidator("id", s.radioIDLookup,
			validation.NormalizeRadioID, validation.AcceptRadioID, validation.RadioIDMessages),
		"serienummer": newValidator("serienummer", s.serialLookup,
			validation.NormalizeSerial, validation.AcceptSerial, validation.SerialMessages),
	}
	defer func() {
		for _, v := range validators {
			v.Close()
		}
	}()

	for {
		var in fieldInput
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("validation channel: %v", err)
			}
			return
		}
		v, ok := validators[in.Field]
		if !ok {
			push(in.Field, in.Value, validation.Result{
				Status:  validation.StatusInvalid,
				Message: "onbekend veld",
			})
			continue
		}
		normalized := v.Input(in.Value)
		valueMu.Lock()
		lastValue[in.Field] = normalized
		valueMu.Unlock()
		push(in.Field, normalized, v.State())
	}
}
