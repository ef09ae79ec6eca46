package analytics

import "time"

type Activity struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type DashboardStats struct {
	TotalProducts       int        `json:"totalProducts"`
	ActiveProducts      int        `json:"activeProducts"`
	PublishedPosts      int        `json:"publishedPosts"`
	TotalBlogViews      int        `json:"totalBlogViews"`
	ActiveConsultations int        `json:"activeConsultations"`
	TotalOrders         int        `json:"totalOrders"`
	TotalRevenue        float64    `json:"totalRevenue"`
	ActivePrograms      int        `json:"activePrograms"`
	TotalEnrolled       int        `json:"totalEnrolled"`
	RecentActivity      []Activity `json:"recentActivity"`
}

type MonthlyRevenue struct {
	Label   string  `json:"label"`
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

type RevenueMetrics struct {
	GrossRevenue      float64          `json:"grossRevenue"`
	TotalDiscounts    float64          `json:"totalDiscounts"`
	TotalTax          float64          `json:"totalTax"`
	TotalShipping     float64          `json:"totalShipping"`
	NetRevenue        float64          `json:"netRevenue"`
	OrderCount        int              `json:"orderCount"`
	AverageOrderValue float64          `json:"averageOrderValue"`
	Monthly           []MonthlyRevenue `json:"monthly"`
}

type OperationalMetrics struct {
	TotalOrders        int            `json:"totalOrders"`
	RefundedCount      int            `json:"refundedCount"`
	CancelledCount     int            `json:"cancelledCount"`
	FailedPayments     int            `json:"failedPayments"`
	RefundRate         float64        `json:"refundRate"`
	CancelRate         float64        `json:"cancelRate"`
	PaymentFailureRate float64        `json:"paymentFailureRate"`
	StatusBreakdown    map[string]int `json:"statusBreakdown"`
}

// Rounded returns a copy with the rates rounded for display.
func (m OperationalMetrics) Rounded() OperationalMetrics {
	m.RefundRate = RoundPercent(m.RefundRate)
	m.CancelRate = RoundPercent(m.CancelRate)
	m.PaymentFailureRate = RoundPercent(m.PaymentFailureRate)
	return m
}

type Customer struct {
	UserID          string    `json:"userId"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	CustomerType    string    `json:"customerType,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	BillingAddress  string    `json:"billingAddress,omitempty"`
	ShippingAddress string    `json:"shippingAddress,omitempty"`
	Country         string    `json:"country,omitempty"`
	TotalOrders     int       `json:"totalOrders"`
	LTV             float64   `json:"ltv"`
	AOV             float64   `json:"aov"`
	LastOrderDate   time.Time `json:"lastOrderDate"`
}

type CustomerSummary struct {
	TotalCustomers  int     `json:"totalCustomers"`
	RepeatCustomers int     `json:"repeatCustomers"`
	AverageLTV      float64 `json:"averageLtv"`
}

type CustomerStats struct {
	Customers []Customer      `json:"customers"`
	Summary   CustomerSummary `json:"summary"`
}
