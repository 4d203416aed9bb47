// Package edgelist reads data-flow graphs from text edgelist files.
//
// Each non-empty line declares one directed edge:
//
//	s v1 root=0 child=3 root_cost=0 child_cost=3
//
// The attribute block may also use the dictionary form produced by common
// graph tools:
//
//	s v1 {'root': 0, 'child': 3, 'root_cost': 0, 'child_cost': 3}
//
// Lines starting with '#' are comments. The node set is derived from the
// edges; the unique node with zero in-degree is designated source, the unique
// node with zero out-degree sink. Graphs that violate this convention are
// rejected rather than silently adopting input positions.
package edgelist

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"ilpsched/pkg/apperror"
	"ilpsched/pkg/domain"
)

// requiredAttrs атрибуты, обязательные на каждом ребре
var requiredAttrs = []string{"root", "child", "root_cost", "child_cost"}

// ReadFile читает edgelist-файл и строит замороженный граф
func ReadFile(path string) (*domain.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeIOFailure, "cannot open edgelist file")
	}
	defer f.Close()
	return Read(f)
}

// Read читает edgelist из потока и строит замороженный граф
func Read(r io.Reader) (*domain.Graph, error) {
	g := domain.NewGraph()

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		from, to, attrs, err := parseLine(line)
		if err != nil {
			return nil, err.WithDetails("line", lineNo)
		}
		if err := g.AddEdge(from, to, attrs); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeIOFailure, "cannot read edgelist")
	}

	source, sink, err := identifyBoundary(g)
	if err != nil {
		return nil, err
	}
	if err := g.Freeze(source, sink); err != nil {
		return nil, err
	}
	return g, nil
}

// parseLine разбирает одну строку edgelist
func parseLine(line string) (from, to string, attrs domain.EdgeAttrs, err *apperror.Error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", "", attrs, apperror.Newf(apperror.CodeMalformedGraph,
			"edgelist line %q does not declare an edge", line)
	}
	from, to = fields[0], fields[1]

	var kv map[string]int
	if i := strings.Index(line, "{"); i >= 0 {
		kv, err = parseDictAttrs(line[i:])
	} else {
		kv, err = parsePairAttrs(fields[2:])
	}
	if err != nil {
		return "", "", attrs, err
	}

	for _, name := range requiredAttrs {
		if _, ok := kv[name]; !ok {
			return "", "", attrs, apperror.Newf(apperror.CodeMalformedGraph,
				"edge %s->%s is missing attribute %q", from, to, name)
		}
	}

	attrs = domain.EdgeAttrs{
		RootUnit:  kv["root"],
		ChildUnit: kv["child"],
		RootCost:  kv["root_cost"],
		ChildCost: kv["child_cost"],
	}
	return from, to, attrs, nil
}

// parsePairAttrs разбирает атрибуты вида key=value
func parsePairAttrs(fields []string) (map[string]int, *apperror.Error) {
	kv := make(map[string]int, len(fields))
	for _, field := range fields {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return nil, apperror.Newf(apperror.CodeMalformedGraph,
				"malformed attribute %q, want key=value", field)
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return nil, apperror.Newf(apperror.CodeMalformedGraph,
				"attribute %q must be a non-negative integer", key)
		}
		kv[key] = n
	}
	return kv, nil
}

// parseDictAttrs разбирает атрибуты в словарной записи {'k': v, ...}
func parseDictAttrs(s string) (map[string]int, *apperror.Error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return nil, apperror.Newf(apperror.CodeMalformedGraph,
			"malformed attribute block %q", s)
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "{"), "}")

	kv := make(map[string]int, 4)
	if strings.TrimSpace(s) == "" {
		return kv, nil
	}
	for _, part := range strings.Split(s, ",") {
		key, value, ok := strings.Cut(part, ":")
		if !ok {
			return nil, apperror.Newf(apperror.CodeMalformedGraph,
				"malformed attribute %q, want 'key': value", part)
		}
		key = strings.Trim(strings.TrimSpace(key), "'\"")
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 0 {
			return nil, apperror.Newf(apperror.CodeMalformedGraph,
				"attribute %q must be a non-negative integer", key)
		}
		kv[key] = n
	}
	return kv, nil
}

// identifyBoundary находит исток и сток по степеням: исток — единственный
// узел без входящих рёбер, сток — единственный без исходящих
func identifyBoundary(g *domain.Graph) (source, sink string, err error) {
	var sources, sinks []string
	for _, label := range g.SortedLabels() {
		if len(g.Predecessors(label)) == 0 {
			sources = append(sources, label)
		}
		if len(g.Successors(label)) == 0 {
			sinks = append(sinks, label)
		}
	}

	if len(sources) != 1 {
		return "", "", apperror.Newf(apperror.CodeMalformedGraph,
			"want exactly one node with zero in-degree, found %d", len(sources)).
			WithDetails("candidates", sources)
	}
	if len(sinks) != 1 {
		return "", "", apperror.Newf(apperror.CodeMalformedGraph,
			"want exactly one node with zero out-degree, found %d", len(sinks)).
			WithDetails("candidates", sinks)
	}
	return sources[0], sinks[0], nil
}
