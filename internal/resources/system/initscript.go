// Package system describes host-level settings: init/shutdown scripts.
package system

import (
	"strings"

	"github.com/nasadm/truenasctl/internal/core/domain"
	"github.com/nasadm/truenasctl/internal/errors"
	"github.com/nasadm/truenasctl/internal/resources/helper"
	"github.com/nasadm/truenasctl/pkg/canon"
)

// InitScriptSpec manages init/shutdown scripts. The user-facing name lives in
// the middleware's comment field. A script's source is given as exactly one
// of cmd (inline command), path (script file), or script (inline body);
// folding rewrites those into the remote type/command/script/script_text
// shape with empty-string resets so a change of source kind clears the old
// fields.
func InitScriptSpec() *domain.ResourceSpec {
	return &domain.ResourceSpec{
		Kind:        domain.KindInitScript,
		Prefix:      "initshutdownscript",
		IDField:     "id",
		NaturalKeys: []string{"name"},
		Fields: map[string]domain.FieldSpec{
			"name":        {Policy: canon.Exact(), Remote: "comment", RequiredOnCreate: true},
			"type":        {Policy: canon.Exact()},
			"command":     {Policy: canon.Exact()},
			"script":      {Policy: canon.Exact()},
			"script_text": {Policy: canon.Exact()},
			"when":        {Policy: canon.Exact()},
			"timeout":     {Policy: canon.Exact()},
		},
		Fold: foldScriptSource,
		Validate: func(desired domain.Record, creating bool) error {
			if creating && !desired.Has("type") {
				return errors.New(errors.CodeUsageError,
					"one of cmd, path, or script is required to create an init script")
			}
			return helper.OneOf("when", desired["when"], "PREINIT", "POSTINIT", "SHUTDOWN")
		},
	}
}

func foldScriptSource(desired domain.Record) (domain.Record, error) {
	cmd, hasCmd := desired["cmd"]
	path, hasPath := desired["path"]
	body, hasBody := desired["script"]

	sources := 0
	for _, has := range []bool{hasCmd, hasPath, hasBody} {
		if has {
			sources++
		}
	}
	if sources > 1 {
		return nil, errors.New(errors.CodeUsageError,
			"cmd, path, and script are mutually exclusive")
	}

	delete(desired, "cmd")
	delete(desired, "path")

	switch {
	case hasCmd:
		desired["type"] = "COMMAND"
		desired["command"] = cmd
		desired["script"] = ""
		desired["script_text"] = ""
	case hasPath:
		desired["type"] = "SCRIPT"
		desired["script"] = path
		desired["command"] = ""
		desired["script_text"] = ""
	case hasBody:
		desired["type"] = "SCRIPT"
		desired["script_text"] = body
		desired["script"] = ""
		desired["command"] = ""
	}

	if w, ok := desired["when"].(string); ok {
		desired["when"] = strings.ToUpper(w)
	}
	return desired, nil
}
