package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// span is the byte range of one JSON value inside a document.
type span struct {
	start, end int
}

// member is one key of a scanned JSON object.
type member struct {
	key      string
	keyStart int // offset of the opening quote of the key
	value    span
}

// jsonObject is an object located inside a larger document.
type jsonObject struct {
	span
	members []member
}

func (o *jsonObject) find(key string) (member, bool) {
	for _, m := range o.members {
		if m.key == key {
			return m, true
		}
	}
	return member{}, false
}

func (o *jsonObject) keys() []string {
	keys := make([]string, len(o.members))
	for i, m := range o.members {
		keys[i] = m.key
	}
	return keys
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// valueStart returns the offset of the first byte at or after off that is
// neither whitespace nor one of the separators in skip.
func valueStart(data []byte, off int, skip string) int {
	for off < len(data) && (isSpace(data[off]) || strings.IndexByte(skip, data[off]) >= 0) {
		off++
	}
	return off
}

// scanObject locates the members of the object whose value occupies s.
func scanObject(data []byte, s span) (*jsonObject, error) {
	if s.start >= len(data) || data[s.start] != '{' {
		return nil, fmt.Errorf("expected JSON object at offset %d", s.start)
	}
	dec := json.NewDecoder(bytes.NewReader(data[s.start:s.end]))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	obj := &jsonObject{span: s}
	for dec.More() {
		before := int(dec.InputOffset())
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		afterKey := int(dec.InputOffset())

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decoding %q: %w", key, err)
		}
		start := valueStart(data, s.start+afterKey, ":")
		obj.members = append(obj.members, member{
			key:      key,
			keyStart: valueStart(data, s.start+before, ","),
			value:    span{start: start, end: start + len(raw)},
		})
	}
	return obj, nil
}

// scanArray returns the spans of the elements of the array occupying s.
func scanArray(data []byte, s span) ([]span, error) {
	if s.start >= len(data) || data[s.start] != '[' {
		return nil, fmt.Errorf("expected JSON array at offset %d", s.start)
	}
	dec := json.NewDecoder(bytes.NewReader(data[s.start:s.end]))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	var elems []span
	for dec.More() {
		before := int(dec.InputOffset())
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		start := valueStart(data, s.start+before, ",")
		elems = append(elems, span{start: start, end: start + len(raw)})
	}
	return elems, nil
}

// rootObject scans the top-level object of data.
func rootObject(data []byte) (*jsonObject, error) {
	start := valueStart(data, 0, "")
	end := len(data)
	for end > start && isSpace(data[end-1]) {
		end--
	}
	return scanObject(data, span{start: start, end: end})
}

// lineIndent returns the leading whitespace of the line containing off.
func lineIndent(data []byte, off int) string {
	lineStart := bytes.LastIndexByte(data[:off], '\n') + 1
	end := lineStart
	for end < off && (data[end] == ' ' || data[end] == '\t') {
		end++
	}
	return string(data[lineStart:end])
}

// encodeAt encodes v the way Encode does, with continuation lines prefixed
// by prefix so the value lines up when placed at that indentation.
func encodeAt(v any, prefix string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(prefix, indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// edit replaces data[start:end] with text. Inserts have start == end.
type edit struct {
	start, end int
	text       []byte
}

// splicer collects edits against one document and applies them at once.
type splicer struct {
	data  []byte
	edits []edit
}

// field is a member value to write.
type field struct {
	key   string
	value any
}

// setMembers replaces the values of the fields obj already has and inserts
// the others after its last member, copying the layout of their siblings.
func (s *splicer) setMembers(obj *jsonObject, fields []field) error {
	var missing []field
	for _, f := range fields {
		m, ok := obj.find(f.key)
		if !ok {
			missing = append(missing, f)
			continue
		}
		text, err := encodeAt(f.value, lineIndent(s.data, m.keyStart))
		if err != nil {
			return fmt.Errorf("encoding %q: %w", f.key, err)
		}
		s.edits = append(s.edits, edit{start: m.value.start, end: m.value.end, text: text})
	}
	if len(missing) == 0 {
		return nil
	}

	if len(obj.members) == 0 {
		outer := lineIndent(s.data, obj.start)
		var buf bytes.Buffer
		buf.WriteString("{")
		if err := writeMembers(&buf, missing, "\n"+outer+indent, outer+indent); err != nil {
			return err
		}
		buf.WriteString("\n" + outer + "}")
		s.edits = append(s.edits, edit{start: obj.start, end: obj.end, text: buf.Bytes()})
		return nil
	}

	last := obj.members[len(obj.members)-1]
	sep, prefix := " ", ""
	if bytes.IndexByte(s.data[obj.start:last.keyStart], '\n') >= 0 {
		prefix = lineIndent(s.data, last.keyStart)
		sep = "\n" + prefix
	}
	var buf bytes.Buffer
	buf.WriteString(",")
	if err := writeMembers(&buf, missing, sep, prefix); err != nil {
		return err
	}
	s.edits = append(s.edits, edit{start: last.value.end, end: last.value.end, text: buf.Bytes()})
	return nil
}

// writeMembers writes fields as comma separated "key": value pairs, each
// preceded by sep, with values indented from prefix.
func writeMembers(buf *bytes.Buffer, fields []field, sep, prefix string) error {
	for i, f := range fields {
		if i > 0 {
			buf.WriteString(",")
		}
		k, err := encodeAt(f.key, "")
		if err != nil {
			return err
		}
		v, err := encodeAt(f.value, prefix)
		if err != nil {
			return fmt.Errorf("encoding %q: %w", f.key, err)
		}
		buf.WriteString(sep)
		buf.Write(k)
		buf.WriteString(": ")
		buf.Write(v)
	}
	return nil
}

// apply returns the document with all edits made. Edits at the same offset
// keep the order they were added in.
func (s *splicer) apply() []byte {
	sort.SliceStable(s.edits, func(i, j int) bool { return s.edits[i].start < s.edits[j].start })
	var out bytes.Buffer
	pos := 0
	for _, e := range s.edits {
		out.Write(s.data[pos:e.start])
		out.Write(e.text)
		pos = e.end
	}
	out.Write(s.data[pos:])
	return out.Bytes()
}
