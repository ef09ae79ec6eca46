package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/blog"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/consultations"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/orders"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/products"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/programs"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/users"
)

const (
	recentOrders        = 3
	recentConsultations = 3
	recentPosts         = 2
	recentLimit         = 5
	monthWindow         = 12
)

// RoundPercent rounds a percentage to one decimal place.
func RoundPercent(v float64) float64 {
	return math.Round(v*10) / 10
}

// Dashboard computes the admin overview counters and the recent activity feed.
func Dashboard(
	productList []products.Product,
	posts []blog.Post,
	bookings []consultations.Consultation,
	orderList []orders.Order,
	programList []programs.Program,
	loc *time.Location,
) DashboardStats {
	if loc == nil {
		loc = time.UTC
	}
	stats := DashboardStats{
		TotalProducts: len(productList),
		TotalOrders:   len(orderList),
	}
	for _, p := range productList {
		if p.Status == products.StatusActive {
			stats.ActiveProducts++
		}
	}
	for _, p := range posts {
		stats.TotalBlogViews += p.Views
		if p.Status == blog.StatusPublished {
			stats.PublishedPosts++
		}
	}
	for _, c := range bookings {
		if c.Status.IsActive() {
			stats.ActiveConsultations++
		}
	}
	for _, o := range orderList {
		stats.TotalRevenue += o.Total
	}
	for _, p := range programList {
		stats.TotalEnrolled += p.EnrolledCount
		if p.Status == programs.StatusActive {
			stats.ActivePrograms++
		}
	}
	stats.RecentActivity = recentActivity(orderList, bookings, posts, loc)
	return stats
}

func recentActivity(orderList []orders.Order, bookings []consultations.Consultation, posts []blog.Post, loc *time.Location) []Activity {
	feed := make([]Activity, 0, recentOrders+recentConsultations+recentPosts)

	for _, o := range newest(orderList, func(o orders.Order) time.Time { return o.CreatedAt }, recentOrders) {
		feed = append(feed, Activity{
			ID:        o.ID,
			Type:      "order",
			Message:   orderMessage(o),
			Timestamp: o.CreatedAt.In(loc).Format(time.RFC3339),
		})
	}
	for _, c := range newest(bookings, func(c consultations.Consultation) time.Time { return c.CreatedAt }, recentConsultations) {
		feed = append(feed, Activity{
			ID:        c.ID,
			Type:      "consultation",
			Message:   fmt.Sprintf("%s booked a %s consultation", c.ClientName, c.Type),
			Timestamp: c.CreatedAt.In(loc).Format(time.RFC3339),
		})
	}
	for _, p := range newest(posts, func(p blog.Post) time.Time { return p.CreatedAt }, recentPosts) {
		verb := "drafted"
		if p.Status == blog.StatusPublished {
			verb = "published"
		}
		feed = append(feed, Activity{
			ID:        p.ID,
			Type:      "blog",
			Message:   fmt.Sprintf("Blog post %s: %s", verb, p.Title),
			Timestamp: p.CreatedAt.In(loc).Format(time.RFC3339),
		})
	}

	if len(feed) > recentLimit {
		feed = feed[:recentLimit]
	}
	return feed
}

func orderMessage(o orders.Order) string {
	currency := o.Currency
	if currency == "" {
		currency = orders.DefaultCurrency
	}
	name := o.Shipping.Name
	if name == "" {
		name = "guest"
	}
	return fmt.Sprintf("New order from %s (%s %.2f)", name, currency, o.Total)
}

// newest returns up to n items ordered by created time, newest first.
// The input slice is not reordered.
func newest[T any](items []T, created func(T) time.Time, n int) []T {
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return created(sorted[i]).After(created(sorted[j]))
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Revenue aggregates order value over orders that were not cancelled or refunded.
func Revenue(orderList []orders.Order, now time.Time, loc *time.Location) RevenueMetrics {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	metrics := RevenueMetrics{Monthly: monthBuckets(now)}
	current := monthIndex(now)

	for _, o := range orderList {
		if !o.Status.CountsAsRevenue() {
			continue
		}
		metrics.GrossRevenue += o.Total
		metrics.TotalDiscounts += o.DiscountAmount
		metrics.TotalTax += o.Tax
		metrics.TotalShipping += o.ShippingCost
		metrics.OrderCount++

		diff := current - monthIndex(o.CreatedAt.In(loc))
		if diff >= 0 && diff < monthWindow {
			bucket := &metrics.Monthly[monthWindow-1-diff]
			bucket.Revenue += o.Total
			bucket.Orders++
		}
	}

	metrics.NetRevenue = metrics.GrossRevenue - metrics.TotalDiscounts
	if metrics.OrderCount > 0 {
		metrics.AverageOrderValue = metrics.GrossRevenue / float64(metrics.OrderCount)
	}
	return metrics
}

func monthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

func monthBuckets(now time.Time) []MonthlyRevenue {
	buckets := make([]MonthlyRevenue, monthWindow)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := range buckets {
		month := first.AddDate(0, i-(monthWindow-1), 0)
		buckets[i] = MonthlyRevenue{
			Label: month.Format("Jan 2006"),
			Year:  month.Year(),
			Month: int(month.Month()),
		}
	}
	return buckets
}

// Operations counts order outcomes. Rates are percentages of all orders.
func Operations(orderList []orders.Order) OperationalMetrics {
	metrics := OperationalMetrics{
		TotalOrders:     len(orderList),
		StatusBreakdown: make(map[string]int, len(orders.Statuses)),
	}
	for _, s := range orders.Statuses {
		metrics.StatusBreakdown[string(s)] = 0
	}
	for _, o := range orderList {
		metrics.StatusBreakdown[string(o.Status)]++
		switch o.Status {
		case orders.StatusRefunded:
			metrics.RefundedCount++
		case orders.StatusCancelled:
			metrics.CancelledCount++
		}
		if o.PaymentStatus == orders.PaymentFailed {
			metrics.FailedPayments++
		}
	}
	if metrics.TotalOrders > 0 {
		total := float64(metrics.TotalOrders)
		metrics.RefundRate = float64(metrics.RefundedCount) / total * 100
		metrics.CancelRate = float64(metrics.CancelledCount) / total * 100
		metrics.PaymentFailureRate = float64(metrics.FailedPayments) / total * 100
	}
	return metrics
}

// Customers groups orders by account. Guest orders are skipped. Accounts
// whose user record is gone fall back to the shipping details of their
// latest order.
func Customers(orderList []orders.Order, accounts []users.User) CustomerStats {
	byID := make(map[string]users.User, len(accounts))
	for _, u := range accounts {
		byID[u.ID] = u
	}

	grouped := make(map[string]*Customer)
	for _, o := range orderList {
		if o.UserID == "" {
			continue
		}
		c, ok := grouped[o.UserID]
		if !ok {
			c = &Customer{UserID: o.UserID}
			grouped[o.UserID] = c
		}
		c.TotalOrders++
		c.LTV += o.Total
		if c.TotalOrders == 1 || o.CreatedAt.After(c.LastOrderDate) {
			c.LastOrderDate = o.CreatedAt
			if _, known := byID[o.UserID]; !known {
				c.Name = o.Shipping.Name
				c.Email = o.Shipping.Email
				c.ShippingAddress = o.Shipping.Address
			}
		}
	}

	out := CustomerStats{Customers: make([]Customer, 0, len(grouped))}
	var ltvSum float64
	for id, c := range grouped {
		if u, ok := byID[id]; ok {
			c.Name = u.Name
			c.Email = u.Email
			c.CustomerType = string(u.CustomerType)
			c.Phone = u.Phone
			c.BillingAddress = u.BillingAddress
			c.ShippingAddress = u.ShippingAddress
			c.Country = u.Country
		}
		c.AOV = c.LTV / float64(c.TotalOrders)
		if c.TotalOrders > 1 {
			out.Summary.RepeatCustomers++
		}
		ltvSum += c.LTV
		out.Customers = append(out.Customers, *c)
	}

	sort.Slice(out.Customers, func(i, j int) bool {
		a, b := out.Customers[i], out.Customers[j]
		if a.LTV != b.LTV {
			return a.LTV > b.LTV
		}
		return a.UserID < b.UserID
	})

	out.Summary.TotalCustomers = len(out.Customers)
	if out.Summary.TotalCustomers > 0 {
		out.Summary.AverageLTV = ltvSum / float64(out.Summary.TotalCustomers)
	}
	return out
}
