package inputs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Record is the serialized form of one instance.
type Record struct {
	UniqueName     string            `json:"uniqueName"`
	Type           string            `json:"type"`
	Value          string            `json:"value"`
	OptionalFields map[string]string `json:"optionalFields"`
}

// Records projects the container into records, in container order, and
// rebuilds the tracked name set from the rows it finds.
func (m *Manager) Records() []Record {
	records := m.project()
	m.names.Reset()
	for _, record := range records {
		m.names.Use(record.UniqueName)
	}
	return records
}

func (m *Manager) project() []Record {
	records := make([]Record, 0)
	for _, wrapper := range m.container.QueryAll(selectWrapper) {
		name, _ := wrapper.Data(dataName)
		typ, _ := wrapper.Data(dataType)

		value := ""
		if control := wrapper.Query(selectControl); control != nil {
			value = control.Value()
		}

		optional := map[string]string{}
		if inputType, err := m.registry.Input(typ); err != nil {
			m.logger.Warn("serializing input of unregistered type",
				zap.String("name", name),
				zap.String("type", typ),
				zap.Error(err),
			)
		} else {
			optional = storedOptionalFields(wrapper, inputType.OptionalFields)
		}

		records = append(records, Record{
			UniqueName:     name,
			Type:           typ,
			Value:          value,
			OptionalFields: optional,
		})
	}
	return records
}

// Serialize renders the container as indented JSON, stores it as the
// snapshot and passes it to the OnSerialize callback. Serializing twice
// without a mutation in between yields identical text.
func (m *Manager) Serialize() (string, error) {
	text, err := encodeRecords(m.Records())
	if err != nil {
		m.logger.Error("serialize failed", zap.Error(err))
		return "", err
	}

	m.snapshot = text
	if m.onSerialize != nil {
		m.onSerialize(text)
	}
	return text, nil
}

// State renders the same text as Serialize without touching the snapshot,
// the name set or the OnSerialize callback.
func (m *Manager) State() (string, error) {
	return encodeRecords(m.project())
}

func encodeRecords(records []Record) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return "", fmt.Errorf("inputs: serialize: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func (m *Manager) serializeLogged() {
	// Serialize logs its own failures.
	_, _ = m.Serialize()
}

// Deserialize replaces every instance with the ones described by text. When
// text cannot be parsed nothing is changed. Records that cannot be created
// are logged and skipped.
func (m *Manager) Deserialize(text string) error {
	var records []Record
	if err := json.Unmarshal([]byte(text), &records); err != nil {
		m.logger.Error("deserialize failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	m.Clear()
	for _, record := range records {
		value := record.Value
		if _, err := m.Create(record.Type, record.UniqueName, &value, record.OptionalFields); err != nil {
			m.logger.Warn("record skipped",
				zap.String("name", record.UniqueName),
				zap.String("type", record.Type),
				zap.Error(err),
			)
		}
	}

	_, err := m.Serialize()
	return err
}
