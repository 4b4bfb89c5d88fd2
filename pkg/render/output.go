package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"gpurouter/pkg/known"
)

// Printer writes a view either as a table or as serialized data.
type Printer struct {
	out    io.Writer
	format string
}

// NewPrinter validates format (table, json or yaml).
func NewPrinter(out io.Writer, format string) (*Printer, error) {
	format = strings.ToLower(format)
	switch format {
	case "":
		format = known.TableOutput
	case known.TableOutput, known.JSONOutput, known.YAMLOutput:
	default:
		return nil, errors.Errorf("invalid output format %q, must be table|json|yaml", format)
	}
	return &Printer{out: out, format: format}, nil
}

// Format returns the selected output format.
func (p *Printer) Format() string {
	return p.format
}

// Print serializes data, or calls table for table output.
func (p *Printer) Print(data interface{}, table func(w io.Writer)) error {
	switch p.format {
	case known.JSONOutput:
		b, err := sonic.ConfigStd.MarshalIndent(data, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal json")
		}
		_, err = fmt.Fprintln(p.out, string(b))
		return err
	case known.YAMLOutput:
		b, err := yaml.Marshal(data)
		if err != nil {
			return errors.Wrap(err, "failed to marshal yaml")
		}
		_, err = p.out.Write(b)
		return err
	default:
		table(p.out)
		return nil
	}
}
