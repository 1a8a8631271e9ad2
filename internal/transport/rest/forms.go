package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/electroprime/storefront-core/internal/core/domain"
)

// Admin forms arrive as multipart (the dashboard sends FormData with an
// optional file) or as plain JSON from scripts. Both are normalized into the
// same shape: string values, a presence map, and at most one uploaded file.

const (
	maxFormMemory = 8 << 20
	maxBodyBytes  = 12 << 20
)

type adminForm struct {
	values  map[string]string
	present map[string]bool
	file    *domain.UploadedFile
}

func (f *adminForm) get(key string) string    { return f.values[key] }
func (f *adminForm) has(key string) bool      { return f.present[key] }
func (f *adminForm) nonEmpty(key string) bool { return f.present[key] && f.values[key] != "" }
func (f *adminForm) stringPtr(key string) *string {
	if !f.nonEmpty(key) {
		return nil
	}
	v := f.values[key]
	return &v
}

// parseAdminForm reads the listed fields plus one optional file field.
func parseAdminForm(r *http.Request, fileField string, fields ...string) (*adminForm, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)

	form := &adminForm{
		values:  make(map[string]string),
		present: make(map[string]bool),
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return nil, fmt.Errorf("%w: malformed multipart form: %v", domain.ErrInvalidInput, err)
		}
		for _, key := range fields {
			if vals, ok := r.MultipartForm.Value[key]; ok && len(vals) > 0 {
				form.values[key] = vals[0]
				form.present[key] = true
			}
		}
		if fileField != "" {
			file, err := readUpload(r, fileField)
			if err != nil {
				return nil, err
			}
			form.file = file
		}
	case "application/json", "":
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("%w: malformed JSON body: %v", domain.ErrInvalidInput, err)
		}
		for _, key := range fields {
			v, ok := body[key]
			if !ok {
				continue
			}
			form.values[key] = stringify(v)
			form.present[key] = true
		}
	default:
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: malformed form body: %v", domain.ErrInvalidInput, err)
		}
		for _, key := range fields {
			if vals, ok := r.PostForm[key]; ok && len(vals) > 0 {
				form.values[key] = vals[0]
				form.present[key] = true
			}
		}
	}

	return form, nil
}

func readUpload(r *http.Request, field string) (*domain.UploadedFile, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable upload: %v", domain.ErrInvalidInput, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable upload: %v", domain.ErrInvalidInput, err)
	}
	return &domain.UploadedFile{Name: header.Filename, Data: data}, nil
}

// readJSONBody returns the raw body after checking it is valid JSON.
func readJSONBody(r *http.Request) (json.RawMessage, error) {
	data, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("unreadable request body")
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("malformed JSON body")
	}
	return json.RawMessage(data), nil
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
