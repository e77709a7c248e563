package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// stdinName is the file argument that reads from standard input.
const stdinName = "-"

// charsets maps MSH-18 character set names to encodings. UTF-8 and ASCII
// need no decoding and are not listed.
var charsets = map[string]encoding.Encoding{
	"8859/1":       charmap.ISO8859_1,
	"8859/2":       charmap.ISO8859_2,
	"8859/3":       charmap.ISO8859_3,
	"8859/4":       charmap.ISO8859_4,
	"8859/5":       charmap.ISO8859_5,
	"8859/6":       charmap.ISO8859_6,
	"8859/7":       charmap.ISO8859_7,
	"8859/8":       charmap.ISO8859_8,
	"8859/9":       charmap.ISO8859_9,
	"8859/15":      charmap.ISO8859_15,
	"WINDOWS-1252": charmap.Windows1252,
	"CP1252":       charmap.Windows1252,
}

// messageFile is one message read from disk or stdin.
type messageFile struct {
	Name string
	Text string

	// Charset is the MSH-18 value the text was decoded from, or "".
	Charset string

	encoding encoding.Encoding
	lf       bool
}

// readMessage reads a message file. Line ends are normalized to CR, and text
// in a single-byte character set named by MSH-18 is decoded to UTF-8.
func readMessage(name string, stdin io.Reader) (*messageFile, error) {
	var (
		raw []byte
		err error
	)
	if name == stdinName {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	f := &messageFile{Name: name}
	f.lf = bytes.IndexByte(raw, '\r') < 0 && bytes.IndexByte(raw, '\n') >= 0
	raw = normalizeTerminators(raw)

	if charset := headerCharset(raw); charset != "" {
		if enc, ok := charsets[strings.ToUpper(charset)]; ok {
			decoded, err := enc.NewDecoder().Bytes(raw)
			if err != nil {
				return nil, fmt.Errorf("failed to decode %s as %s: %w", name, charset, err)
			}
			raw = decoded
			f.Charset = charset
			f.encoding = enc
		}
	}
	if f.encoding == nil && !utf8.Valid(raw) {
		return nil, fmt.Errorf("%s is not valid UTF-8 and MSH-18 names no supported character set", name)
	}

	f.Text = string(raw)
	return f, nil
}

// encode renders text for output: every segment ends in CR, or LF when lf
// is set, and the text is encoded back to the character set it was read in.
func (f *messageFile) encode(text string, lf bool) ([]byte, error) {
	if !strings.HasSuffix(text, "\r") {
		text += "\r"
	}
	if lf {
		text = strings.ReplaceAll(text, "\r", "\n")
	}
	if f.encoding == nil {
		return []byte(text), nil
	}
	out, err := f.encoding.NewEncoder().String(text)
	if err != nil {
		return nil, fmt.Errorf("cannot encode result as %s: %w", f.Charset, err)
	}
	return []byte(out), nil
}

// write stores text back into the file it was read from, keeping its line
// ends unless lf forces LF.
func (f *messageFile) write(text string, lf bool) error {
	if f.Name == stdinName {
		return fmt.Errorf("cannot write back to standard input")
	}
	out, err := f.encode(text, lf || f.lf)
	if err != nil {
		return err
	}
	info, err := os.Stat(f.Name)
	if err != nil {
		return err
	}
	return os.WriteFile(f.Name, out, info.Mode().Perm())
}

// normalizeTerminators turns CR LF and lone LF into CR and drops trailing
// blank lines.
func normalizeTerminators(raw []byte) []byte {
	raw = bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\r"))
	raw = bytes.ReplaceAll(raw, []byte("\n"), []byte("\r"))
	for bytes.HasSuffix(raw, []byte("\r\r")) {
		raw = raw[:len(raw)-1]
	}
	return raw
}

// headerField returns the first repetition of MSH-n, read from the raw
// bytes. Header bytes are ASCII in every supported character set.
func headerField(raw []byte, n int) string {
	if !bytes.HasPrefix(raw, []byte("MSH")) || len(raw) < 8 || n < 3 {
		return ""
	}
	header := raw
	if i := bytes.IndexByte(header, '\r'); i >= 0 {
		header = header[:i]
	}
	fields := bytes.Split(header, header[3:4])
	// fields[0] is "MSH", fields[1] is MSH-2, so MSH-n is fields[n-1].
	if len(fields) < n {
		return ""
	}
	value := fields[n-1]
	if enc := fields[1]; len(enc) >= 2 {
		if i := bytes.IndexByte(value, enc[1]); i >= 0 {
			value = value[:i]
		}
	}
	return strings.TrimSpace(string(value))
}

// headerVersion returns the version ID of MSH-12 without its
// internationalization components.
func headerVersion(text string) string {
	v := headerField([]byte(text), 12)
	// text[4] is the component separator when MSH-12 was found.
	if v != "" {
		if i := strings.IndexByte(v, text[4]); i >= 0 {
			v = v[:i]
		}
	}
	return v
}

// headerCharset returns the character set named by MSH-18.
func headerCharset(raw []byte) string {
	return headerField(raw, 18)
}
