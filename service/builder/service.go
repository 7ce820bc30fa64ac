package builder

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"sort"

	"github.com/markphelps/optional"
	"github.com/viant/afs"

	"github.com/AntoineSebert/scheduling-solver/model"
)

// Sentinel attribute values marking an optional field as unset.
const (
	noMacrotick = 9999999
	noMaxJitter = -1
	noCore      = -1
)

// Service builds problems from a *.tsk task-graph file and a *.cfg
// architecture file. Both are XML; files are addressed by URL through the
// abstract file service, so mem:// and cloud schemes work alongside plain
// paths.
type Service struct {
	fs afs.Service
}

// New creates a builder backed by the default file service.
func New() *Service {
	return &Service{fs: afs.New()}
}

// Build parses the pair into a validated problem.
func (s *Service) Build(ctx context.Context, pair model.FilepathPair) (*model.Problem, error) {
	graph, err := s.importGraph(ctx, pair.Tsk)
	if err != nil {
		return nil, fmt.Errorf("failed to import graph from %s: %w", pair.Tsk, err)
	}
	arch, err := s.importArch(ctx, pair.Cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to import architecture from %s: %w", pair.Cfg, err)
	}
	problem := &model.Problem{Filepaths: pair, Graph: graph, Arch: arch}
	if err := problem.Validate(); err != nil {
		return nil, err
	}
	return problem, nil
}

type (
	coreElement struct {
		ID        int `xml:"Id,attr"`
		MacroTick int `xml:"MacroTick,attr"`
	}

	cpuElement struct {
		ID    int           `xml:"Id,attr"`
		Cores []coreElement `xml:"Core"`
	}

	nodeElement struct {
		ID        int    `xml:"Id,attr"`
		Name      string `xml:"Name,attr"`
		WCET      int    `xml:"WCET,attr"`
		Period    int    `xml:"Period,attr"`
		Deadline  int    `xml:"Deadline,attr"`
		MaxJitter int    `xml:"MaxJitter,attr"`
		Offset    int    `xml:"Offset,attr"`
		CPUID     int    `xml:"CpuId,attr"`
		CoreID    int    `xml:"CoreId,attr"`
	}

	runnableElement struct {
		Name string `xml:"Name,attr"`
	}

	chainElement struct {
		Name      string            `xml:"Name,attr"`
		Budget    int               `xml:"Budget,attr"`
		Priority  int               `xml:"Priority,attr"`
		Runnables []runnableElement `xml:"Runnable"`
	}
)

// importArch reads the *.cfg file: Cpu elements holding Core elements, both
// normalised to their rank in ascending attribute-id order.
func (s *Service) importArch(ctx context.Context, url string) (model.Architecture, error) {
	data, err := s.fs.DownloadWithURL(ctx, url)
	if err != nil {
		return nil, err
	}
	cpus, err := collect[cpuElement](data, "Cpu")
	if err != nil {
		return nil, err
	}
	sort.Slice(cpus, func(i, j int) bool { return cpus[i].ID < cpus[j].ID })

	arch := make(model.Architecture, 0, len(cpus))
	for i, cpu := range cpus {
		sort.Slice(cpu.Cores, func(a, b int) bool { return cpu.Cores[a].ID < cpu.Cores[b].ID })
		cores := make([]model.Core, 0, len(cpu.Cores))
		for ii, core := range cpu.Cores {
			var macrotick optional.Int
			if core.MacroTick != noMacrotick {
				macrotick = optional.NewInt(core.MacroTick)
			}
			cores = append(cores, model.Core{ID: ii, Macrotick: macrotick})
		}
		arch = append(arch, model.Processor{ID: i, Cores: cores})
	}
	return arch, nil
}

// importGraph reads the *.tsk file: Node elements describing tasks and
// optional Chain elements grouping them by name. Nodes no chain claims
// become singleton chains so the solver always sees the chain-shaped model.
func (s *Service) importGraph(ctx context.Context, url string) ([]model.Chain, error) {
	data, err := s.fs.DownloadWithURL(ctx, url)
	if err != nil {
		return nil, err
	}
	nodes, err := collect[nodeElement](data, "Node")
	if err != nil {
		return nil, err
	}
	chains, err := collect[chainElement](data, "Chain")
	if err != nil {
		return nil, err
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	byName := make(map[string]*nodeElement, len(nodes))
	for i := range nodes {
		if _, ok := byName[nodes[i].Name]; ok {
			return nil, model.NewConfigurationError("duplicate node name %q", nodes[i].Name)
		}
		byName[nodes[i].Name] = &nodes[i]
	}

	claimed := make(map[string]bool, len(nodes))
	graph := make([]model.Chain, 0, len(chains))
	for i, chain := range chains {
		tasks := make([]model.Task, 0, len(chain.Runnables))
		for ii, runnable := range chain.Runnables {
			node, ok := byName[runnable.Name]
			if !ok {
				return nil, model.NewConfigurationError("chain %q references unknown node %q", chain.Name, runnable.Name)
			}
			if claimed[runnable.Name] {
				return nil, model.NewConfigurationError("node %q is claimed by more than one chain", runnable.Name)
			}
			claimed[runnable.Name] = true
			tasks = append(tasks, newTask(ii, node))
		}
		graph = append(graph, model.Chain{
			ID:       i,
			Name:     chain.Name,
			Priority: chain.Priority,
			Budget:   chain.Budget,
			Tasks:    tasks,
		})
	}
	for i := range nodes {
		if claimed[nodes[i].Name] {
			continue
		}
		graph = append(graph, model.Chain{
			ID:     len(graph),
			Name:   nodes[i].Name,
			Budget: nodes[i].Deadline,
			Tasks:  []model.Task{newTask(0, &nodes[i])},
		})
	}
	return graph, nil
}

func newTask(id int, node *nodeElement) model.Task {
	task := model.Task{
		ID:       id,
		Name:     node.Name,
		WCET:     node.WCET,
		Period:   node.Period,
		Deadline: node.Deadline,
		Offset:   node.Offset,
		CPUID:    node.CPUID,
	}
	if node.MaxJitter != noMaxJitter {
		task.MaxJitter = optional.NewInt(node.MaxJitter)
	}
	if node.CoreID != noCore {
		task.CoreID = optional.NewInt(node.CoreID)
	}
	return task
}

// collect decodes every element with the given local name, wherever it sits
// in the document.
func collect[T any](data []byte, element string) ([]T, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	var out []T
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Local != element {
			continue
		}
		var value T
		if err := decoder.DecodeElement(&value, &start); err != nil {
			return nil, err
		}
		out = append(out, value)
	}
}
