package catalog

// Resource names.
const (
	Business = "business"
	Products = "products"
	Posts    = "posts"
	Comments = "comments"
	Reports  = "reports"
	Users    = "users"
	Payouts  = "payouts"
)

// BusinessSpaces lists business spaces awaiting or past review. The status
// travels in the path as an upper-case token.
var BusinessSpaces = Resource{
	Name:   Business,
	Title:  "Business Spaces",
	Path:   "/business",
	Paging: ServerPaging,
	Statuses: []Status{
		{Value: "PENDING", Label: "Pending"},
		{Value: "ACTIVE", Label: "Active"},
		{Value: "REJECTED", Label: "Rejected"},
		{Value: "INACTIVE", Label: "Stopped"},
	},
	Transitions: []Transition{
		{Name: "approve", Key: "a", Status: "ACTIVE"},
		{Name: "reject", Key: "x", Status: "REJECTED", NeedsReason: true},
		{Name: "stop", Key: "t", Status: "INACTIVE", NeedsReason: true},
		{Name: "send to review", Key: "v", Status: "PENDING"},
	},
	Style: StylePathToken,
	Columns: []Column{
		{Title: "Name", Field: "name", Width: 28},
		{Title: "Owner", Field: "owner", Width: 18},
		{Title: "Category", Field: "category", Width: 14},
		{Title: "Status", Field: "status", Width: 10},
		{Title: "Created", Field: "createdAt", Width: 12},
	},
	SortFields:      []string{"createdAt", "name"},
	SearchFields:    []string{"name", "owner", "category"},
	DefaultSort:     "createdAt",
	DefaultPageSize: 10,
	Deletable:       true,
}

// DigitalProducts is the product catalog. Pages are one-based and the
// approve/reject/stop transitions have bulk endpoints.
var DigitalProducts = Resource{
	Name:     Products,
	Title:    "Digital Products",
	Path:     "/product",
	Paging:   ServerPaging,
	PageBase: 1,
	Statuses: []Status{
		{Value: "in_review", Label: "In Review"},
		{Value: "active", Label: "Approved"},
		{Value: "rejected", Label: "Rejected"},
		{Value: "stopped", Label: "Stopped"},
	},
	Transitions: []Transition{
		{Name: "approve", Key: "a", Status: "active", PathToken: "approve", BulkToken: "approve"},
		{Name: "reject", Key: "x", Status: "rejected", NeedsReason: true, BulkToken: "rejected"},
		// The backend spells the bulk stop route "stoped".
		{Name: "stop", Key: "t", Status: "stopped", NeedsReason: true, BulkToken: "stoped"},
		{Name: "send to review", Key: "v", Status: "in_review"},
	},
	Style:        StylePathToken,
	BulkIDsField: "productIds",
	Columns: []Column{
		{Title: "Title", Field: "title", Width: 28},
		{Title: "Creator", Field: "creator", Width: 16},
		{Title: "Price", Field: "price", Width: 8},
		{Title: "Status", Field: "status", Width: 10},
		{Title: "Created", Field: "createdAt", Width: 12},
	},
	SortFields:      []string{"createdAt", "title", "price"},
	SearchFields:    []string{"title", "creator"},
	DefaultSort:     "createdAt",
	DefaultPageSize: 10,
	Deletable:       true,
}

// PostsFeed is user-generated posts. Soft-deleted posts are reachable
// through the "deleted" pseudo-filter.
var PostsFeed = Resource{
	Name:   Posts,
	Title:  "Posts",
	Path:   "/posts",
	Paging: ServerPaging,
	Statuses: []Status{
		{Value: "in_review", Label: "Pending Review"},
		{Value: "active", Label: "Approved"},
		{Value: "inactive", Label: "Rejected"},
	},
	Transitions: []Transition{
		{Name: "approve", Key: "a", Status: "active"},
		{Name: "send to review", Key: "v", Status: "in_review"},
		{Name: "reject", Key: "x", Status: "inactive"},
	},
	Style: StylePut,
	Columns: []Column{
		{Title: "Content", Field: "content", Width: 34},
		{Title: "Author", Field: "author", Width: 16},
		{Title: "Likes", Field: "likes", Width: 6},
		{Title: "Status", Field: "status", Width: 10},
		{Title: "Created", Field: "createdAt", Width: 12},
	},
	SortFields:      []string{"createdAt", "likes"},
	SearchFields:    []string{"content", "author"},
	DefaultSort:     "createdAt",
	DefaultPageSize: 20,
	Deletable:       true,
	DeletedFilter:   "deleted",
}

// CommentsFeed is loaded whole and paged locally.
var CommentsFeed = Resource{
	Name:   Comments,
	Title:  "Comments",
	Path:   "/comments",
	Paging: ClientPaging,
	Statuses: []Status{
		{Value: "visible", Label: "Visible"},
		{Value: "hidden", Label: "Hidden"},
	},
	Transitions: []Transition{
		{Name: "show", Key: "a", Status: "visible"},
		{Name: "hide", Key: "x", Status: "hidden"},
	},
	Style: StyleStatusPatch,
	Columns: []Column{
		{Title: "Comment", Field: "text", Width: 38},
		{Title: "Author", Field: "author", Width: 16},
		{Title: "Post", Field: "postId", Width: 10},
		{Title: "Status", Field: "status", Width: 8},
		{Title: "Created", Field: "createdAt", Width: 12},
	},
	SortFields:      []string{"createdAt", "author"},
	SearchFields:    []string{"text", "author"},
	DefaultSort:     "createdAt",
	DefaultPageSize: 10,
	Deletable:       true,
}

// UserReports are moderation reports filed against posts, comments and users.
var UserReports = Resource{
	Name:     Reports,
	Title:    "Reports",
	Path:     "/reports",
	Paging:   ServerPaging,
	PageBase: 1,
	ListKey:  "reports",
	Statuses: []Status{
		{Value: "pending", Label: "Pending"},
		{Value: "in_progress", Label: "In Progress"},
		{Value: "resolved", Label: "Resolved"},
	},
	Transitions: []Transition{
		{Name: "start", Key: "p", Status: "in_progress"},
		{Name: "resolve", Key: "a", Status: "resolved"},
		{Name: "reopen", Key: "v", Status: "pending"},
	},
	Style: StylePut,
	Columns: []Column{
		{Title: "Reason", Field: "reason", Width: 26},
		{Title: "Type", Field: "type", Width: 8},
		{Title: "Reporter", Field: "reporter", Width: 14},
		{Title: "User", Field: "userStatus", Width: 8},
		{Title: "Status", Field: "status", Width: 11},
		{Title: "Created", Field: "createdAt", Width: 12},
	},
	SortFields:      []string{"createdAt"},
	SearchFields:    []string{"reason", "reporter"},
	DefaultSort:     "createdAt",
	DefaultPageSize: 10,
}

// PlatformUsers is the user directory; status toggles between active and
// blocked.
var PlatformUsers = Resource{
	Name:   Users,
	Title:  "Users",
	Path:   "/users",
	Paging: ServerPaging,
	Statuses: []Status{
		{Value: "active", Label: "Active"},
		{Value: "blocked", Label: "Blocked"},
	},
	Transitions: []Transition{
		{Name: "activate", Key: "a", Status: "active"},
		{Name: "block", Key: "b", Status: "blocked"},
	},
	Style: StyleStatusPatch,
	Columns: []Column{
		{Title: "Name", Field: "name", Width: 22},
		{Title: "Email", Field: "email", Width: 26},
		{Title: "Country", Field: "country", Width: 12},
		{Title: "Status", Field: "status", Width: 8},
		{Title: "Joined", Field: "createdAt", Width: 12},
	},
	SortFields:      []string{"createdAt", "name"},
	SearchFields:    []string{"name", "email"},
	DefaultSort:     "createdAt",
	DefaultPageSize: 20,
}

// FinancePayouts are payout requests, loaded whole, flaggable and exportable.
var FinancePayouts = Resource{
	Name:   Payouts,
	Title:  "Finance",
	Path:   "/payouts",
	Paging: ClientPaging,
	Statuses: []Status{
		{Value: "To Do", Label: "To Do"},
		{Value: "In Progress", Label: "In Progress"},
		{Value: "Pending", Label: "Pending"},
		{Value: "Done", Label: "Done"},
	},
	Transitions: []Transition{
		{Name: "mark to do", Key: "t", Status: "To Do", BulkToken: "status"},
		{Name: "start", Key: "i", Status: "In Progress", BulkToken: "status"},
		{Name: "hold", Key: "p", Status: "Pending", BulkToken: "status"},
		{Name: "complete", Key: "c", Status: "Done", BulkToken: "status"},
	},
	Style:        StyleStatusPatch,
	BulkIDsField: "payoutIds",
	Columns: []Column{
		{Title: "Payout", Field: "id", Width: 8},
		{Title: "Company", Field: "company", Width: 14},
		{Title: "Amount", Field: "amount", Width: 9},
		{Title: "Net", Field: "netAmount", Width: 9},
		{Title: "Method", Field: "method", Width: 9},
		{Title: "Period", Field: "monthlyPeriod", Width: 13},
		{Title: "Status", Field: "status", Width: 11},
		{Title: "Flag", Field: "isFlagged", Width: 5},
	},
	SortFields:      []string{"requestDate", "amount", "company"},
	SearchFields:    []string{"company", "id", "country"},
	DefaultSort:     "requestDate",
	DefaultPageSize: 5,
	Flaggable:       true,
	Exportable:      true,
}

// All returns every resource in screen order.
func All() []Resource {
	return []Resource{
		BusinessSpaces,
		DigitalProducts,
		PostsFeed,
		CommentsFeed,
		UserReports,
		PlatformUsers,
		FinancePayouts,
	}
}

// Lookup finds a resource by name.
func Lookup(name string) (Resource, bool) {
	for _, r := range All() {
		if r.Name == name {
			return r, true
		}
	}
	return Resource{}, false
}

// Names returns the resource names in screen order.
func Names() []string {
	all := All()
	out := make([]string, len(all))
	for i, r := range all {
		out[i] = r.Name
	}
	return out
}
