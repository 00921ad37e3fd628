package types

type RegisterResponse struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	SessionToken string `json:"session_token"`
	ExpiresAt    string `json:"expires_at"`
}

type LoginResponse struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	AvatarURL    string `json:"avatar_url"`
	SessionToken string `json:"session_token"`
	ExpiresAt    string `json:"expires_at"`
}

type VerifyResponse struct {
	UserID      uint   `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	ExpiresAt   string `json:"expires_at"`
}

type TreeSummary struct {
	ID           uint   `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	PersonsCount int64  `json:"persons_count"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

type TreeListResponse struct {
	Trees []TreeSummary `json:"trees"`
	Count int           `json:"count"`
}

// Node is the graph-visualization shape of a person row.
type Node struct {
	ID             string  `json:"id"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	MiddleName     string  `json:"middleName"`
	MaidenName     string  `json:"maidenName"`
	Gender         string  `json:"gender"`
	BirthDate      string  `json:"birthDate"`
	BirthPlace     string  `json:"birthPlace"`
	DeathDate      string  `json:"deathDate"`
	DeathPlace     string  `json:"deathPlace"`
	IsAlive        bool    `json:"isAlive"`
	Occupation     string  `json:"occupation"`
	Relation       string  `json:"relation"`
	Bio            string  `json:"bio"`
	HistoryContext string  `json:"historyContext"`
}

// Edge is a typed directed edge; type is emitted only for spouse edges
// and defaults to parent when absent.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type,omitempty"`
}

type TreeLoadResponse struct {
	TreeID      uint   `json:"tree_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Nodes       []Node `json:"nodes"`
	Edges       []Edge `json:"edges"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type TreeSaveResponse struct {
	TreeID     uint   `json:"tree_id"`
	Message    string `json:"message"`
	NodesCount int    `json:"nodes_count"`
	EdgesCount int    `json:"edges_count"`
}

type MetrikaPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type MetrikaStatsResponse struct {
	Visits    float64            `json:"visits"`
	Users     float64            `json:"users"`
	Pageviews float64            `json:"pageviews"`
	Period    MetrikaPeriod      `json:"period"`
	Goals     map[string]float64 `json:"goals"`
	Timestamp string             `json:"timestamp"`
}
