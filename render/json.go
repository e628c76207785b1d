package render

import (
	"encoding/json"
	"time"

	"flowlog/record"
)

// JSON renders records as single-line JSON objects carrying the full scope
// lineage, suitable for log shippers and for flowcat to re-render.
type JSON struct{}

// NewJSON builds a JSON formatter.
func NewJSON() *JSON { return &JSON{} }

type jsonScope struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Path     string `json:"path,omitempty"`
	Depth    int    `json:"depth"`
	ParentID string `json:"parent_id,omitempty"`
}

type jsonEvent struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Subtitle  string         `json:"subtitle,omitempty"`
	Scope     *jsonScope     `json:"scope,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Format implements Formatter.
func (j *JSON) Format(rec record.Record) Event {
	evt := jsonEvent{
		Timestamp: rec.Time.UTC().Format(time.RFC3339Nano),
		Level:     rec.Level.String(),
		Message:   rec.Message,
		Subtitle:  rec.Subtitle,
	}

	if sc := rec.Scope; sc != nil && !sc.IsRoot() {
		js := &jsonScope{
			ID:    sc.ID().String(),
			Name:  sc.Name(),
			Path:  sc.FullName(),
			Depth: sc.Depth(),
		}
		if parent := sc.Parent(); parent != nil && !parent.IsRoot() {
			js.ParentID = parent.ID().String()
		}
		evt.Scope = js
	}

	if eff := rec.EffectiveFields(); eff.Len() > 0 {
		evt.Fields = make(map[string]any, eff.Len())
		for _, f := range eff.All() {
			evt.Fields[f.Key] = f.Value.Any()
		}
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		payload = []byte("{}")
	}
	return Event{Level: rec.Level, Bytes: payload}
}
