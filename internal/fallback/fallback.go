// Package fallback reads input without a terminal: it writes the prompt and
// reads a plain line or character, decoded with the locale's charset.
package fallback

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/flowave-io/lineinput/pkg/log"
)

// Reader reads from a non-terminal input. Bytes read ahead are kept for the
// next call.
type Reader struct {
	in  *bufio.Reader
	out io.Writer
}

// New returns a reader decoding in with the charset named by the
// environment's locale.
func New(in io.Reader, out io.Writer) *Reader {
	return NewWithEncoding(in, out, LocaleEncoding(os.Getenv))
}

// NewWithEncoding returns a reader decoding in with enc.
func NewWithEncoding(in io.Reader, out io.Writer, enc encoding.Encoding) *Reader {
	return &Reader{
		in:  bufio.NewReader(transform.NewReader(in, enc.NewDecoder())),
		out: out,
	}
}

// LocaleEncoding returns the encoding declared by LC_ALL, LC_CTYPE or LANG,
// the first one set winning. Locales without a known charset, including C
// and POSIX, read as UTF-8.
func LocaleEncoding(getenv func(string) string) encoding.Encoding {
	var locale string
	for _, name := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if v := getenv(name); v != "" {
			locale = v
			break
		}
	}
	charset := Charset(locale)
	if charset == "" {
		return unicode.UTF8
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		log.Debug("unknown locale charset, using utf-8", "locale", locale, "err", err)
		return unicode.UTF8
	}
	return enc
}

// Charset extracts the codeset of a locale name such as "en_US.UTF-8@euro".
func Charset(locale string) string {
	_, cs, ok := strings.Cut(locale, ".")
	if !ok {
		return ""
	}
	cs, _, _ = strings.Cut(cs, "@")
	return strings.ToLower(cs)
}

func (r *Reader) prompt(p string) error {
	if p == "" {
		return nil
	}
	if _, err := io.WriteString(r.out, p); err != nil {
		return fmt.Errorf("write prompt: %w", err)
	}
	return nil
}

// ReadLine writes prompt and reads one line without its terminator. ok is
// false when input ended before any character.
func (r *Reader) ReadLine(prompt string) (line string, ok bool, err error) {
	if err := r.prompt(prompt); err != nil {
		return "", false, err
	}
	line, err = r.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", false, fmt.Errorf("read line: %w", err)
	}
	if err == io.EOF && line == "" {
		return "", false, nil
	}
	if l, found := strings.CutSuffix(line, "\n"); found {
		line = strings.TrimSuffix(l, "\r")
	}
	return line, true, nil
}

// ReadChar writes prompt and reads one decoded character. ok is false at
// end of input.
func (r *Reader) ReadChar(prompt string) (ch rune, ok bool, err error) {
	if err := r.prompt(prompt); err != nil {
		return 0, false, err
	}
	ch, _, err = r.in.ReadRune()
	if err == io.EOF {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read character: %w", err)
	}
	return ch, true, nil
}
