// Package geojson loads, edits and saves feature collections while keeping
// every byte that is not explicitly changed, including object key order.
package geojson

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

const featuresKey = "features"

var (
	ErrInvalidJSON          = errors.New("invalid json")
	ErrNotFeatureCollection = errors.New("not a feature collection")
	ErrNoProperties         = errors.New("feature has no properties object")
	ErrNotString            = errors.New("property is not a string")
)

// Document is an in-memory JSON document with a features array.
type Document struct {
	data []byte
}

// Parse checks that data is a JSON object whose features member, when
// present, is an array.
func Parse(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	if !gjson.ParseBytes(data).IsObject() {
		return nil, fmt.Errorf("%w: top level is not an object", ErrNotFeatureCollection)
	}
	features := gjson.GetBytes(data, featuresKey)
	if features.Exists() && !features.IsArray() {
		return nil, fmt.Errorf("%w: %q is not an array", ErrNotFeatureCollection, featuresKey)
	}
	return &Document{data: append([]byte(nil), data...)}, nil
}

// Load downloads and parses the document at location.
func Load(ctx context.Context, fs afs.Service, location string) (*Document, error) {
	data, err := fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", location, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	return doc, nil
}

// Save writes the document to location, indented with indent.
func (d *Document) Save(ctx context.Context, fs afs.Service, location, indent string) error {
	data, err := d.Bytes(indent)
	if err != nil {
		return err
	}
	if err := fs.Upload(ctx, location, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", location, err)
	}
	return nil
}

// Bytes renders the document. An empty indent produces compact output;
// an indent that breaks the JSON is rejected.
func (d *Document) Bytes(indent string) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	if indent == "" {
		err = json.Compact(&buf, d.data)
	} else {
		err = json.Indent(&buf, d.data, "", indent)
	}
	if err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}
	if !json.Valid(buf.Bytes()) {
		return nil, fmt.Errorf("render document with indent %q: %w", indent, ErrInvalidJSON)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Features returns a snapshot of the features in document order. Later
// edits are not reflected in the returned values.
func (d *Document) Features() []Feature {
	items := gjson.GetBytes(d.data, featuresKey).Array()
	features := make([]Feature, len(items))
	for i, item := range items {
		features[i] = Feature{Index: i, value: item}
	}
	return features
}

// Len returns the number of features.
func (d *Document) Len() int {
	return int(gjson.GetBytes(d.data, featuresKey+".#").Int())
}

// SetProperty sets a string property on the feature at index. An existing
// value is replaced where it stands; a new key is appended to the
// properties object.
func (d *Document) SetProperty(index int, key, value string) error {
	if index < 0 || index >= d.Len() {
		return fmt.Errorf("feature %d out of range", index)
	}
	path := fmt.Sprintf("%s.%d.properties.%s", featuresKey, index, EscapeKey(key))
	data, err := sjson.SetBytes(d.data, path, value)
	if err != nil {
		return fmt.Errorf("set %s on feature %d: %w", key, index, err)
	}
	d.data = data
	return nil
}

// Feature is a read-only view of one feature.
type Feature struct {
	Index int
	value gjson.Result
}

// Properties returns the properties object.
func (f Feature) Properties() (gjson.Result, error) {
	if !f.value.IsObject() {
		return gjson.Result{}, fmt.Errorf("feature %d: %w", f.Index, ErrNoProperties)
	}
	props := f.value.Get("properties")
	if !props.IsObject() {
		return gjson.Result{}, fmt.Errorf("feature %d: %w", f.Index, ErrNoProperties)
	}
	return props, nil
}

// Property returns the raw property value; the result does not exist when
// the key is missing.
func (f Feature) Property(key string) (gjson.Result, error) {
	props, err := f.Properties()
	if err != nil {
		return gjson.Result{}, err
	}
	return props.Get(EscapeKey(key)), nil
}

// StringProperty returns the property as text. Missing and null values
// yield an empty string; other non-string values yield ErrNotString.
func (f Feature) StringProperty(key string) (string, error) {
	value, err := f.Property(key)
	if err != nil {
		return "", err
	}
	switch value.Type {
	case gjson.Null:
		return "", nil
	case gjson.String:
		return value.Str, nil
	default:
		return "", fmt.Errorf("feature %d: %q: %w", f.Index, key, ErrNotString)
	}
}

// Geometry returns the geometry member, which may not exist.
func (f Feature) Geometry() gjson.Result {
	if !f.value.IsObject() {
		return gjson.Result{}
	}
	return f.value.Get("geometry")
}

var keyEscaper = strings.NewReplacer(
	`.`, `\.`,
	`*`, `\*`,
	`?`, `\?`,
	`|`, `\|`,
	`#`, `\#`,
	`@`, `\@`,
)

// EscapeKey makes key usable as a single path component.
func EscapeKey(key string) string {
	return keyEscaper.Replace(key)
}
