package export

import (
	"bytes"
	"compress/zlib"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeStreams inflates every FlateDecode stream of the document so the
// text operators can be inspected.
func decodeStreams(t *testing.T, doc []byte) string {
	t.Helper()
	var out bytes.Buffer
	rest := doc
	for {
		i := bytes.Index(rest, []byte("stream\n"))
		if i < 0 {
			break
		}
		rest = rest[i+len("stream\n"):]
		j := bytes.Index(rest, []byte("endstream"))
		if j < 0 {
			break
		}
		seg := bytes.TrimSuffix(rest[:j], []byte("\n"))
		rest = rest[j:]
		r, err := zlib.NewReader(bytes.NewReader(seg))
		if err != nil {
			continue
		}
		decoded, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			continue
		}
		out.Write(decoded)
	}
	return out.String()
}

func TestPDFExporterTranslatesAccentedText(t *testing.T) {
	data := Dataset{
		Headers: []string{"Élève", "Statut"},
		Rows:    []map[string]string{{"Élève": "Aïssatou Ba", "Statut": "payé"}},
	}
	doc, err := NewPDFExporter().Render(data, "Rapport d'assiduité")
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(doc, []byte("%PDF")))

	content := decodeStreams(t, doc)
	require.NotEmpty(t, content)
	// The core fonts are cp1252: É is \xc9, è is \xe8, é is \xe9. The raw
	// UTF-8 byte pairs would render as mojibake.
	assert.Contains(t, content, "\xc9l\xe8ve")
	assert.Contains(t, content, "pay\xe9")
	assert.Contains(t, content, "A\xefssatou Ba")
	assert.NotContains(t, content, "\xc3\x89l\xc3\xa8ve")
}

func TestPDFExporterRequiresHeaders(t *testing.T) {
	_, err := NewPDFExporter().Render(Dataset{}, "")
	require.Error(t, err)
}
