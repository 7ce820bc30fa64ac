package format

import (
	"encoding/json"
	"encoding/xml"
	"fmt"

	"github.com/AntoineSebert/scheduling-solver/model"
)

// Format selects an output rendering for a solution.
type Format string

const (
	JSON Format = "json"
	XML  Format = "xml"
	Raw  Format = "raw"
)

// Parse maps a format name onto a Format.
func Parse(name string) (Format, error) {
	switch Format(name) {
	case JSON, XML, Raw:
		return Format(name), nil
	default:
		return "", fmt.Errorf("unsupported output format %q", name)
	}
}

// Render formats the solution. The solution is read-only; slices stay in
// the insertion order the schedule generator produced.
func (f Format) Render(s *model.Solution) (string, error) {
	if s == nil {
		return "", fmt.Errorf("nil solution")
	}
	switch f {
	case JSON:
		return renderJSON(s)
	case XML:
		return renderXML(s)
	case Raw:
		return fmt.Sprintf("%+v", *s), nil
	default:
		return "", fmt.Errorf("unsupported output format %q", string(f))
	}
}

func renderJSON(s *model.Solution) (string, error) {
	data, err := json.MarshalIndent(s, "", "\t")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

type (
	sliceElement struct {
		ChainID  int `xml:"ChainId,attr"`
		TaskID   int `xml:"TaskId,attr"`
		Start    int `xml:"Start,attr"`
		Duration int `xml:"Duration,attr"`
	}

	scheduleElement struct {
		CPUID  int            `xml:"CpuId,attr"`
		CoreID int            `xml:"CoreId,attr"`
		Slices []sliceElement `xml:"Slice"`
	}

	tablesElement struct {
		XMLName   xml.Name          `xml:"Tables"`
		Schedules []scheduleElement `xml:"Schedule"`
	}
)

// renderXML emits the schedule table schema: one Schedule element per core,
// one Slice element per execution window.
func renderXML(s *model.Solution) (string, error) {
	tables := tablesElement{}
	for i := range s.Arch {
		cpu := &s.Arch[i]
		for ii := range cpu.Cores {
			core := &cpu.Cores[ii]
			schedule := scheduleElement{CPUID: cpu.ID, CoreID: core.ID}
			for _, slice := range core.Slices {
				schedule.Slices = append(schedule.Slices, sliceElement{
					ChainID:  slice.Task.ChainID,
					TaskID:   slice.Task.TaskID,
					Start:    slice.Start,
					Duration: slice.End - slice.Start,
				})
			}
			tables.Schedules = append(tables.Schedules, schedule)
		}
	}
	data, err := xml.MarshalIndent(tables, "", "\t")
	if err != nil {
		return "", err
	}
	return xml.Header + string(data), nil
}
