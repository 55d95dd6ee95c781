package auth

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

const (
	PermMembersRead     = "members.read"
	PermTemplatesRead   = "templates.read"
	PermTemplatesWrite  = "templates.write"
	PermEntriesRead     = "entries.read"
	PermEntriesWrite    = "entries.write"
	PermReportsGenerate = "reports.generate"
	PermAuditRead       = "audit.read"
)

var DefaultPermissions = []string{
	PermMembersRead,
	PermTemplatesRead,
	PermTemplatesWrite,
	PermEntriesRead,
	PermEntriesWrite,
	PermReportsGenerate,
	PermAuditRead,
}

var RolePermissions = map[string][]string{
	RoleMember: {
		PermMembersRead,
		PermTemplatesRead,
		PermEntriesRead,
		PermEntriesWrite,
	},
	RoleAdmin: {
		PermMembersRead,
		PermTemplatesRead,
		PermTemplatesWrite,
		PermEntriesRead,
		PermEntriesWrite,
		PermReportsGenerate,
		PermAuditRead,
	},
}
