// Package danger scans for dangerous call patterns: built-ins and standard
// library calls with well-known injection or code-execution risk. The rule
// catalog itself lives outside the binary in languages/python.yaml and is
// loaded once at package init, following the same embedded-pattern-file
// approach used for the other per-language tables in languages/.
package danger

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/skylos-dev/skylos/internal/model"
	"github.com/skylos-dev/skylos/languages"
)

// rule describes one dangerous call pattern's fixed identifier, severity,
// and human-readable message.
type rule struct {
	ID       string
	Severity string
	Message  string
}

// Rule IDs. The spec's prose references two generations of rule IDs for
// this scanner (legacy SKY-D001/SKY-D002 and an extended SKY-D201-D211
// catalog); this package adopts the extended catalog since it is the only
// one specific enough to name individual call shapes. See DESIGN.md.
const (
	RuleEval           = "SKY-D201"
	RuleExec           = "SKY-D202"
	RuleOSSystem       = "SKY-D203"
	RuleShellTrue      = "SKY-D204"
	RuleUnsafeDeserial = "SKY-D205"
	RuleUnsafeYAML     = "SKY-D206"
	RuleOSPopen        = "SKY-D207"
	RuleMarshalLoads   = "SKY-D208"
	RuleWeakHash       = "SKY-D209"
	RuleInsecureTemp   = "SKY-D210"
	RuleSQLInterp      = "SKY-D211"
)

// rawCatalog mirrors languages/python.yaml's shape before it's indexed by ID.
type rawCatalog struct {
	Name  string `yaml:"name"`
	Rules []struct {
		ID       string `yaml:"id"`
		Severity string `yaml:"severity"`
		Message  string `yaml:"message"`
	} `yaml:"rules"`
}

var ruleCatalog = loadCatalog("python.yaml")

// loadCatalog reads and parses one embedded rule catalog. It panics on
// failure since the YAML is embedded at compile time: a malformed catalog
// is a build-time defect, not a runtime one.
func loadCatalog(name string) map[string]rule {
	data, err := languages.FS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("danger: load %s: %v", name, err))
	}

	var raw rawCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		panic(fmt.Sprintf("danger: parse %s: %v", name, err))
	}

	catalog := make(map[string]rule, len(raw.Rules))
	for _, r := range raw.Rules {
		catalog[r.ID] = rule{ID: r.ID, Severity: r.Severity, Message: r.Message}
	}
	return catalog
}

func finding(r rule, file string, line int) model.Finding {
	return model.Finding{
		Message:  r.Message,
		RuleID:   r.ID,
		File:     file,
		Line:     line,
		Severity: r.Severity,
	}
}
