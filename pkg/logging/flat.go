package logging

import (
	"encoding/json"
	"time"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

var bufferPool = buffer.NewPool()

// FlatEncoder writes each entry as a single-level JSON object: entry metadata
// and fields share one namespace, caller is split into file/line/function
type FlatEncoder struct {
	zapcore.Encoder
	config zapcore.EncoderConfig
	// context holds fields added through With
	context map[string]interface{}
}

// NewFlatEncoder creates a new flat JSON encoder
func NewFlatEncoder(config zapcore.EncoderConfig) zapcore.Encoder {
	return &FlatEncoder{
		Encoder: zapcore.NewJSONEncoder(config),
		config:  config,
		context: map[string]interface{}{},
	}
}

// AddString keeps string context fields so that With-loggers carry them
func (e *FlatEncoder) AddString(key, value string) {
	e.context[key] = value
}

// EncodeEntry encodes a log entry as one flat JSON object
func (e *FlatEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	obj := make(map[string]interface{}, len(e.context)+len(fields)+6)
	for k, v := range e.context {
		obj[k] = v
	}

	obj["timestamp"] = entry.Time.Format(time.RFC3339Nano)
	obj["level"] = entry.Level.String()
	obj["message"] = entry.Message
	if entry.LoggerName != "" {
		obj["logger"] = entry.LoggerName
	}
	if entry.Caller.Defined {
		obj["file"] = entry.Caller.File
		obj["line"] = entry.Caller.Line
		obj["function"] = entry.Caller.Function
	}
	if entry.Stack != "" {
		obj["stack"] = entry.Stack
	}

	for _, field := range fields {
		if field.Type == zapcore.SkipType {
			continue
		}
		obj[field.Key] = fieldValue(field)
	}

	buf := bufferPool.Get()
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(obj); err != nil {
		buf.Free()
		return nil, err
	}
	return buf, nil
}

// Clone creates a copy of the encoder
func (e *FlatEncoder) Clone() zapcore.Encoder {
	context := make(map[string]interface{}, len(e.context))
	for k, v := range e.context {
		context[k] = v
	}
	return &FlatEncoder{
		Encoder: e.Encoder.Clone(),
		config:  e.config,
		context: context,
	}
}

func fieldValue(field zapcore.Field) interface{} {
	switch field.Type {
	case zapcore.StringType:
		return field.String
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type,
		zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return field.Integer
	case zapcore.BoolType:
		return field.Integer == 1
	case zapcore.DurationType:
		return time.Duration(field.Integer).String()
	case zapcore.ErrorType:
		if err, ok := field.Interface.(error); ok && err != nil {
			return err.Error()
		}
		return nil
	}

	// Everything else goes through a throwaway map encoder
	enc := zapcore.NewMapObjectEncoder()
	field.AddTo(enc)
	return enc.Fields[field.Key]
}
