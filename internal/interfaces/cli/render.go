package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/bytedance/sonic"
	"github.com/spf13/cast"
	"github.com/valyala/bytebufferpool"
)

func writeJSON(w io.Writer, v any) error {
	raw, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	raw = append(raw, '\n')
	_, err = w.Write(raw)
	return err
}

// writeTable renders aligned columns. Rows shorter than the header are
// padded with blanks.
func writeTable(w io.Writer, header []string, rows [][]string) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	tw := tabwriter.NewWriter(buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		cells := make([]string, len(header))
		copy(cells, row)
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := w.Write(buf.B)
	return err
}

// writeSummary prints the scalar fields of a run summary as key/value rows,
// using the same names as the JSON output.
func writeSummary(w io.Writer, title string, v any) error {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	fields := map[string]any{}
	if err := sonic.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("decode summary: %w", err)
	}

	keys := make([]string, 0, len(fields))
	for key, value := range fields {
		switch value.(type) {
		case map[string]any, []any, nil:
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, []string{key, cast.ToString(fields[key])})
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	buf.WriteString(title)
	buf.WriteString("\n")
	if _, err := w.Write(buf.B); err != nil {
		return err
	}
	return writeTable(w, []string{"FIELD", "VALUE"}, rows)
}

func emit(w io.Writer, asJSON bool, title string, v any) error {
	if asJSON {
		return writeJSON(w, v)
	}
	return writeSummary(w, title, v)
}
