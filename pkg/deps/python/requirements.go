package python

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	"github.com/matzehuels/vendorpy/pkg/deps"
)

// depRE captures the name, optional extras and an exact pin of a requirement.
var depRE = regexp.MustCompile(`^([a-zA-Z0-9][-a-zA-Z0-9._]*)\s*(?:\[[^\]]*\])?\s*(?:===?\s*([^\s;,\\]+))?`)

// Requirements parses requirements.txt files, including the hash-pinned
// output of `uv export --format requirements-txt`.
type Requirements struct{}

func (r *Requirements) Type() string { return "requirements.txt" }

func (r *Requirements) Supports(name string) bool {
	return name == "requirements.txt" ||
		(strings.HasPrefix(name, "requirements") && strings.HasSuffix(name, ".txt"))
}

func (r *Requirements) Parse(path string) (deps.DependencySet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	set := deps.DependencySet{}
	var pending strings.Builder

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if cont, ok := strings.CutSuffix(strings.TrimRight(line, " \t"), `\`); ok {
			pending.WriteString(cont)
			pending.WriteByte(' ')
			continue
		}
		pending.WriteString(line)
		parseLine(pending.String(), set)
		pending.Reset()
	}
	if pending.Len() > 0 {
		parseLine(pending.String(), set)
	}

	return set, scanner.Err()
}

func parseLine(raw string, set deps.DependencySet) {
	line := stripComment(raw)
	if line == "" || line[0] == '-' {
		return
	}
	// PEP 508 direct reference: "name[extras] @ https://..."
	if spec, _, ok := strings.Cut(line, " @ "); ok {
		if m := depRE.FindStringSubmatch(strings.TrimSpace(spec)); len(m) > 1 {
			set.Add(m[1], "")
		}
		return
	}
	if strings.Contains(line, "://") || strings.HasPrefix(line, "git+") {
		return
	}
	if m := depRE.FindStringSubmatch(line); len(m) > 1 {
		set.Add(m[1], m[2])
	}
}

func stripComment(line string) string {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "#") {
		return ""
	}
	if i := strings.Index(line, " #"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}
