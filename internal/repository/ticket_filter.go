package repository

type TicketFilter struct {
	Q         string
	Status    string
	Priority  string
	Category  string
	FolderID  string
	CreatedBy string // restricts clients to their own tickets
	Limit     int
	Offset    int
	Sort      string // created_at, updated_at, priority
	Order     string // asc|desc
}
