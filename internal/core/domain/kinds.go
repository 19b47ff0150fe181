package domain

type ResourceKind string

const (
	KindISCSIPortal       ResourceKind = "iscsi-portal"
	KindISCSITarget       ResourceKind = "iscsi-target"
	KindISCSIExtent       ResourceKind = "iscsi-extent"
	KindISCSIInitiator    ResourceKind = "iscsi-initiator"
	KindISCSIAuth         ResourceKind = "iscsi-auth"
	KindISCSITargetExtent ResourceKind = "iscsi-targetextent"
	KindISCSIGlobal       ResourceKind = "iscsi-global"
	KindNFS               ResourceKind = "nfs"
	KindUser              ResourceKind = "user"
	KindInitScript        ResourceKind = "initscript"
	KindDataset           ResourceKind = "dataset"
)

func (rk ResourceKind) String() string {
	return string(rk)
}
