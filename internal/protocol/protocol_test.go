package protocol

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRequestPayloadList(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"root":"/tmp/locales","lang":"de","force":true,
		"payload":[{"key":"a.b","ns":"common","old":"x","new":"y"},{"key":"c","old":"1","new":""}]}`))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/locales", req.Root)
	assert.Equal(t, "de", req.Lang)
	assert.True(t, req.Force)
	require.Len(t, req.Payload, 2)
	assert.Equal(t, Edit{Key: "a.b", NS: "common", Old: "x", New: "y"}, req.Payload[0])
	assert.Equal(t, "", req.Payload[1].New)
}

func TestDecodeRequestPayloadSingleObject(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"root":"/r","lang":"de","payload":{"key":"k","old":"o","new":"n"}}`))
	require.NoError(t, err)
	require.Len(t, req.Payload, 1)
	assert.Equal(t, "k", req.Payload[0].Key)
	assert.False(t, req.Force)
}

func TestDecodeRequestMalformedJSON(t *testing.T) {
	_, err := DecodeRequest([]byte(`{"root":`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
	assert.True(t, strings.HasPrefix(err.Error(), "parse error"))
}

func TestDecodeRequestRejectsScalarPayload(t *testing.T) {
	_, err := DecodeRequest([]byte(`{"root":"/r","lang":"de","payload":"nope"}`))
	assert.ErrorIs(t, err, ErrParse)
}

func TestDecodeRequestRejectsInvalidUTF8(t *testing.T) {
	_, err := DecodeRequest([]byte{'{', '"', 0xff, '"', ':', '1', '}'})
	assert.ErrorIs(t, err, ErrParse)
}

func TestValidateRequest(t *testing.T) {
	ok := Request{Root: "/r", Lang: "de", Payload: Edits{{Key: "k", Old: "o"}}}
	assert.NoError(t, ValidateRequest(ok))

	cases := map[error]Request{
		ErrMissingRoot:  {Lang: "de", Payload: ok.Payload},
		ErrMissingLang:  {Root: "/r", Lang: "  ", Payload: ok.Payload},
		ErrEmptyPayload: {Root: "/r", Lang: "de"},
	}
	for want, req := range cases {
		assert.ErrorIs(t, ValidateRequest(req), want)
	}
}

func TestValidateEdit(t *testing.T) {
	assert.NoError(t, ValidateEdit(Edit{Key: "a", Old: "b"}))
	assert.ErrorIs(t, ValidateEdit(Edit{Old: "b"}), ErrMissingKey)
	assert.ErrorIs(t, ValidateEdit(Edit{Key: "a"}), ErrMissingOld)
}

func TestEncodeResponseShape(t *testing.T) {
	out, err := EncodeResponse(Response{Success: true, Message: "Tür & <Tor>"})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"Tür & <Tor>"`)
	assert.False(t, strings.HasSuffix(string(out), "\n"))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, []any{}, decoded["updatedFiles"])
	assert.Equal(t, []any{}, decoded["errors"])
	assert.NotContains(t, decoded, "error")
}

func TestFailedResponse(t *testing.T) {
	resp := Failed(errors.New("parse error: boom"))
	assert.False(t, resp.Success)
	assert.Equal(t, "parse error: boom", resp.Error)
	assert.Equal(t, []string{"parse error: boom"}, resp.Errors)
	assert.Empty(t, resp.UpdatedFiles)
}
