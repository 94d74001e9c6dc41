package grpc

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/uexcorp-go/internal/domain/daemon"
)

// toStruct converts a map to a protobuf Struct. Values structpb cannot
// represent directly (typed slices, structs) are normalized through JSON.
func toStruct(m map[string]interface{}) (*structpb.Struct, error) {
	if s, err := structpb.NewStruct(m); err == nil {
		return s, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	var normalized map[string]interface{}
	if err := json.Unmarshal(b, &normalized); err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	return structpb.NewStruct(normalized)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func stringField(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

func intField(s *structpb.Struct, key string) int {
	return int(s.GetFields()[key].GetNumberValue())
}

func boolField(s *structpb.Struct, key string) bool {
	return s.GetFields()[key].GetBoolValue()
}

func callRequest(name string, args map[string]interface{}) (*structpb.Struct, error) {
	if args == nil {
		args = map[string]interface{}{}
	}
	return toStruct(map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
}

func callResultToProto(r *daemon.FunctionResult) (*structpb.Struct, error) {
	return toStruct(map[string]interface{}{
		"operation":  r.Operation,
		"text":       r.Text,
		"request_id": r.RequestID,
		"failed":     r.Failed,
	})
}

func callResultFromProto(s *structpb.Struct) *daemon.FunctionResult {
	return &daemon.FunctionResult{
		Operation: stringField(s, "operation"),
		Text:      stringField(s, "text"),
		RequestID: stringField(s, "request_id"),
		Failed:    boolField(s, "failed"),
	}
}

func catalogToProto(c *daemon.FunctionCatalog) (*structpb.Struct, error) {
	functions := make([]interface{}, 0, len(c.Functions))
	for _, fn := range c.Functions {
		params := make([]interface{}, 0, len(fn.Parameters))
		for _, p := range fn.Parameters {
			param := map[string]interface{}{
				"name":        p.Name,
				"type":        p.Type,
				"description": p.Description,
				"required":    p.Required,
			}
			if p.Default != nil {
				param["default"] = p.Default
			}
			params = append(params, param)
		}
		functions = append(functions, map[string]interface{}{
			"name":        fn.Name,
			"description": fn.Description,
			"parameters":  params,
		})
	}
	return toStruct(map[string]interface{}{
		"functions": functions,
		"context":   c.Context,
	})
}

func catalogFromProto(s *structpb.Struct) *daemon.FunctionCatalog {
	out := &daemon.FunctionCatalog{Context: stringField(s, "context")}
	for _, v := range s.GetFields()["functions"].GetListValue().GetValues() {
		fn := v.GetStructValue()
		info := daemon.FunctionInfo{
			Name:        stringField(fn, "name"),
			Description: stringField(fn, "description"),
		}
		for _, pv := range fn.GetFields()["parameters"].GetListValue().GetValues() {
			p := pv.GetStructValue()
			param := daemon.ParameterInfo{
				Name:        stringField(p, "name"),
				Type:        stringField(p, "type"),
				Description: stringField(p, "description"),
				Required:    boolField(p, "required"),
			}
			if d, ok := p.GetFields()["default"]; ok {
				param.Default = d.AsInterface()
			}
			info.Parameters = append(info.Parameters, param)
		}
		out.Functions = append(out.Functions, info)
	}
	return out
}

func healthToProto(h *daemon.HealthStatus) (*structpb.Struct, error) {
	return toStruct(map[string]interface{}{
		"status":        h.Status,
		"version":       h.Version,
		"data_loaded":   h.DataLoaded,
		"fetched_at":    formatTime(h.FetchedAt),
		"commodities":   h.Commodities,
		"locations":     h.Locations,
		"offers":        h.Offers,
		"ships":         h.Ships,
		"circuit_state": h.CircuitState,
	})
}

func healthFromProto(s *structpb.Struct) *daemon.HealthStatus {
	return &daemon.HealthStatus{
		Status:       stringField(s, "status"),
		Version:      stringField(s, "version"),
		DataLoaded:   boolField(s, "data_loaded"),
		FetchedAt:    parseTime(stringField(s, "fetched_at")),
		Commodities:  intField(s, "commodities"),
		Locations:    intField(s, "locations"),
		Offers:       intField(s, "offers"),
		Ships:        intField(s, "ships"),
		CircuitState: stringField(s, "circuit_state"),
	}
}

func errorFilterToProto(f daemon.ErrorFilter) (*structpb.Struct, error) {
	return toStruct(map[string]interface{}{
		"level":      f.Level,
		"request_id": f.RequestID,
		"since":      formatTime(f.Since),
		"limit":      f.Limit,
	})
}

func errorFilterFromProto(s *structpb.Struct) daemon.ErrorFilter {
	return daemon.ErrorFilter{
		Level:     stringField(s, "level"),
		RequestID: stringField(s, "request_id"),
		Since:     parseTime(stringField(s, "since")),
		Limit:     intField(s, "limit"),
	}
}

func errorsToProto(entries []daemon.ErrorEntry) (*structpb.ListValue, error) {
	values := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		entry := map[string]interface{}{
			"timestamp":  formatTime(e.Timestamp),
			"level":      e.Level,
			"message":    e.Message,
			"request_id": e.RequestID,
			"operation":  e.Operation,
		}
		if len(e.Metadata) > 0 {
			entry["metadata"] = e.Metadata
		}
		values = append(values, entry)
	}
	s, err := toStruct(map[string]interface{}{"entries": values})
	if err != nil {
		return nil, err
	}
	return s.GetFields()["entries"].GetListValue(), nil
}

func errorsFromProto(l *structpb.ListValue) []daemon.ErrorEntry {
	out := make([]daemon.ErrorEntry, 0, len(l.GetValues()))
	for _, v := range l.GetValues() {
		e := v.GetStructValue()
		entry := daemon.ErrorEntry{
			Timestamp: parseTime(stringField(e, "timestamp")),
			Level:     stringField(e, "level"),
			Message:   stringField(e, "message"),
			RequestID: stringField(e, "request_id"),
			Operation: stringField(e, "operation"),
		}
		if md := e.GetFields()["metadata"].GetStructValue(); md != nil {
			entry.Metadata = md.AsMap()
		}
		out = append(out, entry)
	}
	return out
}

func loadsToProto(loads []daemon.DataLoadEntry) (*structpb.ListValue, error) {
	values := make([]interface{}, 0, len(loads))
	for _, l := range loads {
		values = append(values, map[string]interface{}{
			"timestamp":   formatTime(l.Timestamp),
			"source":      l.Source,
			"success":     l.Success,
			"duration_ms": l.Duration.Milliseconds(),
			"commodities": l.Commodities,
			"locations":   l.Locations,
			"offers":      l.Offers,
			"ships":       l.Ships,
		})
	}
	s, err := toStruct(map[string]interface{}{"loads": values})
	if err != nil {
		return nil, err
	}
	return s.GetFields()["loads"].GetListValue(), nil
}

func loadsFromProto(l *structpb.ListValue) []daemon.DataLoadEntry {
	out := make([]daemon.DataLoadEntry, 0, len(l.GetValues()))
	for _, v := range l.GetValues() {
		s := v.GetStructValue()
		out = append(out, daemon.DataLoadEntry{
			Timestamp:   parseTime(stringField(s, "timestamp")),
			Source:      stringField(s, "source"),
			Success:     boolField(s, "success"),
			Duration:    time.Duration(intField(s, "duration_ms")) * time.Millisecond,
			Commodities: intField(s, "commodities"),
			Locations:   intField(s, "locations"),
			Offers:      intField(s, "offers"),
			Ships:       intField(s, "ships"),
		})
	}
	return out
}
