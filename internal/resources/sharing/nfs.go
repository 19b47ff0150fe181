// Package sharing describes file-sharing service configurations.
package sharing

import (
	"github.com/nasadm/truenasctl/internal/core/domain"
	"github.com/nasadm/truenasctl/pkg/canon"
)

// NFSSpec manages the NFS service configuration singleton. The user-facing
// NFSv4 field names map to the middleware's v4_* names; bindip compares as a
// set since the service does not care about ordering.
func NFSSpec() *domain.ResourceSpec {
	return &domain.ResourceSpec{
		Kind:      domain.KindNFS,
		Prefix:    "nfs",
		Singleton: true,
		Fields: map[string]domain.FieldSpec{
			"servers":           {Policy: canon.Exact()},
			"udp":               {Policy: canon.Exact(), Boolean: true},
			"allow_nonroot":     {Policy: canon.Exact(), Boolean: true},
			"nfsv4":             {Policy: canon.Exact(), Remote: "v4", Boolean: true},
			"v3owner":           {Policy: canon.Exact(), Remote: "v4_v3owner", Boolean: true},
			"krb":               {Policy: canon.Exact(), Remote: "v4_krb", Boolean: true},
			"domain":            {Policy: canon.Exact(), Remote: "v4_domain"},
			"bindip":            {Policy: canon.Set()},
			"mountd_port":       {Policy: canon.Exact()},
			"rpcstatd_port":     {Policy: canon.Exact()},
			"rpclockd_port":     {Policy: canon.Exact()},
			"userd_manage_gids": {Policy: canon.Exact(), Boolean: true},
		},
	}
}
