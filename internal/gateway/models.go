package gateway

import "time"

// Page is the backend's paginated envelope.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Size       int `json:"size"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// PageFilter holds plain pagination parameters.
type PageFilter struct {
	Page *int
	Size *int
}

func (f PageFilter) params() []Param {
	return []Param{P("page", f.Page), P("size", f.Size)}
}

type Address struct {
	Street       string   `json:"street"`
	Number       string   `json:"number"`
	Complement   string   `json:"complement,omitempty"`
	Neighborhood string   `json:"neighborhood"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	ZipCode      string   `json:"zipCode"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
}

type Market struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	LogoURL     string    `json:"logoUrl,omitempty"`
	OwnerID     string    `json:"ownerId"`
	ManagersIDs []string  `json:"managersIds"`
	Address     *Address  `json:"address,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	MarketIDs []string  `json:"marketIds,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Chat struct {
	ID            string     `json:"id"`
	MarketID      string     `json:"marketId"`
	CustomerID    string     `json:"customerId"`
	CustomerName  string     `json:"customerName"`
	LastMessage   *Message   `json:"lastMessage,omitempty"`
	UnreadCount   int        `json:"unreadCount"`
	LastMessageAt *time.Time `json:"lastMessageAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type Message struct {
	ID        string     `json:"id"`
	ChatID    string     `json:"chatId"`
	SenderID  string     `json:"senderId"`
	Content   string     `json:"content"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type MarkReadResult struct {
	ChatID  string `json:"chatId"`
	Updated int    `json:"updated"`
}

type DeliverySettings struct {
	ID                  string    `json:"id"`
	MarketID            string    `json:"marketId"`
	DeliveryEnabled     bool      `json:"deliveryEnabled"`
	PickupEnabled       bool      `json:"pickupEnabled"`
	DeliveryRadiusKm    float64   `json:"deliveryRadiusKm"`
	DeliveryFee         float64   `json:"deliveryFee"`
	FreeDeliveryOver    *float64  `json:"freeDeliveryOver,omitempty"`
	MinimumOrderValue   float64   `json:"minimumOrderValue"`
	EstimatedMinutesMin int       `json:"estimatedTimeMin"`
	EstimatedMinutesMax int       `json:"estimatedTimeMax"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// DaySchedule is one weekday; DayOfWeek follows time.Weekday (0 = Sunday).
type DaySchedule struct {
	DayOfWeek int    `json:"dayOfWeek"`
	IsOpen    bool   `json:"isOpen"`
	OpensAt   string `json:"opensAt,omitempty"` // HH:MM
	ClosesAt  string `json:"closesAt,omitempty"`
}

type OpeningHours struct {
	MarketID  string        `json:"marketId"`
	Schedule  []DaySchedule `json:"schedule"`
	UpdatedAt *time.Time    `json:"updatedAt,omitempty"`
}

type ReportsSummary struct {
	MarketID       string       `json:"marketId,omitempty"`
	From           *time.Time   `json:"from,omitempty"`
	To             *time.Time   `json:"to,omitempty"`
	TotalOrders    int          `json:"totalOrders"`
	TotalRevenue   float64      `json:"totalRevenue"`
	AverageTicket  float64      `json:"averageTicket"`
	TotalCustomers int          `json:"totalCustomers"`
	NewCustomers   int          `json:"newCustomers"`
	CanceledOrders int          `json:"canceledOrders"`
	TopProducts    []TopProduct `json:"topProducts"`
	RevenueByDay   []DayRevenue `json:"revenueByDay"`
	GeneratedAt    time.Time    `json:"generatedAt"`
}

type TopProduct struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

type DayRevenue struct {
	Date    string  `json:"date"` // YYYY-MM-DD
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type UploadResult struct {
	URL         string    `json:"url"`
	Key         string    `json:"key"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType"`
	Access      string    `json:"access,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type GeocodeResult struct {
	FormattedAddress string  `json:"formattedAddress"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	City             string  `json:"city,omitempty"`
	State            string  `json:"state,omitempty"`
	ZipCode          string  `json:"zipCode,omitempty"`
	Geohash          string  `json:"geohash"` // computed locally
}
