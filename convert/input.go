package convert

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// selectEncoding returns decoder for legacy input text, nil means UTF-8 (with
// BOM detection).
func selectEncoding(name string, log *zap.Logger) encoding.Encoding {
	if len(name) == 0 {
		return nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", name), zap.Error(err))
		return nil
	}
	n, _ := ianaindex.IANA.Name(enc)
	log.Debug("Decoding input text", zap.String("charset", n))
	return enc
}

// selectReader wraps r with decoder. Byte order mark, when present, always
// wins over requested encoding.
func selectReader(r io.Reader, enc encoding.Encoding) io.Reader {
	fallback := unicode.UTF8.NewDecoder()
	if enc != nil {
		fallback = enc.NewDecoder()
	}
	return transform.NewReader(r, unicode.BOMOverride(fallback))
}

// readInput reads whole text from file or, when path is empty or "-", from
// stdin.
func readInput(path string, enc encoding.Encoding, stdin io.Reader) (string, error) {
	src := stdin
	if len(path) > 0 && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("unable to open input: %w", err)
		}
		defer f.Close()
		src = f
	}
	data, err := io.ReadAll(selectReader(src, enc))
	if err != nil {
		return "", fmt.Errorf("unable to read input: %w", err)
	}
	return string(data), nil
}
