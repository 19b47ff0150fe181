package iscsi

import (
	"github.com/nasadm/truenasctl/internal/core/domain"
	"github.com/nasadm/truenasctl/internal/resources/helper"
	"github.com/nasadm/truenasctl/pkg/canon"
)

// ExtentSpec manages iSCSI extents, either FILE or DISK backed. The delete
// call takes positional remove and force flags after the id; remove unlinks
// the backing file of a FILE extent.
func ExtentSpec() *domain.ResourceSpec {
	return &domain.ResourceSpec{
		Kind:        domain.KindISCSIExtent,
		Prefix:      "iscsi.extent",
		IDField:     "id",
		NaturalKeys: []string{"name"},
		Fields: map[string]domain.FieldSpec{
			"name":            {Policy: canon.Exact(), RequiredOnCreate: true},
			"type":            {Policy: canon.Exact(), RequiredOnCreate: true},
			"disk":            {Policy: canon.Exact()},
			"path":            {Policy: canon.Exact()},
			"filesize":        {Policy: canon.Exact()},
			"blocksize":       {Policy: canon.Exact()},
			"pblocksize":      {Policy: canon.Exact(), Boolean: true},
			"avail_threshold": {Policy: canon.Exact()},
			"comment":         {Policy: canon.Exact()},
			"insecure_tpc":    {Policy: canon.Exact(), Boolean: true},
			"xen":             {Policy: canon.Exact(), Boolean: true},
			"rpm":             {Policy: canon.Exact()},
			"ro":              {Policy: canon.Exact(), Boolean: true},
			"enabled":         {Policy: canon.Exact(), Boolean: true},
		},
		Meta: map[string]struct{}{"remove": {}, "force": {}},
		DeleteArgs: func(address any, desired domain.Record) []any {
			remove, _ := desired["remove"].(bool)
			force, _ := desired["force"].(bool)
			return []any{address, remove, force}
		},
		Validate: func(desired domain.Record, _ bool) error {
			if err := helper.OneOf("type", desired["type"], "FILE", "DISK"); err != nil {
				return err
			}
			return helper.OneOf("rpm", desired["rpm"],
				"UNKNOWN", "SSD", "5400", "7200", "10000", "15000")
		},
	}
}
