package member

// Member is one person the scoring engine reports on. Identity fields come
// from the joined user record; the directory is read-only to the engine.
type Member struct {
	UserID         string `json:"userId"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	DepartmentSlug string `json:"departmentSlug"`
	Status         string `json:"status"`
}

// SearchFilter combines as "(any text filter matches) AND (all exact filters
// match)". Department and Role are exact; Name and Email are
// case-insensitive substring text filters.
type SearchFilter struct {
	Department string
	Role       string
	Name       string
	Email      string
}

// SearchResult carries one page of members plus the unpaginated total.
type SearchResult struct {
	Docs  []Member `json:"docs"`
	Total int      `json:"total"`
}
