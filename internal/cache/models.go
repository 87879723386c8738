package cache

// Booking is a rental or taxi booking as shown on the dashboards.
type Booking struct {
	ID             string  `json:"id"`
	CustomerName   string  `json:"customerName,omitempty"`
	VehicleID      string  `json:"vehicleId,omitempty"`
	DriverID       string  `json:"driverId,omitempty"`
	PickupLocation string  `json:"pickupLocation,omitempty"`
	DropLocation   string  `json:"dropLocation,omitempty"`
	PickupTime     string  `json:"pickupTime,omitempty"`
	Status         string  `json:"status,omitempty"`
	Amount         float64 `json:"amount,omitempty"`
}

// Driver is a driver available for allocation.
type Driver struct {
	ID                string `json:"id"`
	Name              string `json:"name,omitempty"`
	Phone             string `json:"phone,omitempty"`
	Status            string `json:"status,omitempty"`
	AssignedBookingID string `json:"assignedBookingId,omitempty"`
}

// Taxi is a live taxi position on the monitoring board.
type Taxi struct {
	ID          string  `json:"id"`
	PlateNumber string  `json:"plateNumber,omitempty"`
	DriverID    string  `json:"driverId,omitempty"`
	Status      string  `json:"status,omitempty"`
	Lat         float64 `json:"lat,omitempty"`
	Lng         float64 `json:"lng,omitempty"`
}

// Car is a fleet vehicle.
type Car struct {
	ID          string  `json:"id"`
	Make        string  `json:"make,omitempty"`
	Model       string  `json:"model,omitempty"`
	Year        int     `json:"year,omitempty"`
	PlateNumber string  `json:"plateNumber,omitempty"`
	Status      string  `json:"status,omitempty"`
	DailyRate   float64 `json:"dailyRate,omitempty"`
}

// MaintenanceRecord is a scheduled or completed vehicle service.
type MaintenanceRecord struct {
	ID            string  `json:"id"`
	VehicleID     string  `json:"vehicleId,omitempty"`
	Description   string  `json:"description,omitempty"`
	ScheduledDate string  `json:"scheduledDate,omitempty"`
	Status        string  `json:"status,omitempty"`
	Cost          float64 `json:"cost,omitempty"`
}

// UsedCarSale is a listing on the used-car sales board.
type UsedCarSale struct {
	ID        string  `json:"id"`
	CarID     string  `json:"carId,omitempty"`
	Price     float64 `json:"price,omitempty"`
	Status    string  `json:"status,omitempty"`
	BuyerName string  `json:"buyerName,omitempty"`
	SoldAt    string  `json:"soldAt,omitempty"`
}

// ReportSummary holds the aggregate figures of the reports page.
type ReportSummary struct {
	TotalBookings     int     `json:"totalBookings,omitempty"`
	CompletedBookings int     `json:"completedBookings,omitempty"`
	TotalRevenue      float64 `json:"totalRevenue,omitempty"`
	ActiveTaxis       int     `json:"activeTaxis,omitempty"`
	CarsSold          int     `json:"carsSold,omitempty"`
}

// UserDashboard is the cached state of the customer dashboard.
type UserDashboard struct {
	Bookings   []Booking `json:"bookings,omitempty"`
	ActiveTab  string    `json:"activeTab,omitempty"`
	SearchTerm string    `json:"searchTerm,omitempty"`
}

// ManagerDashboard is the cached state of the manager dashboard: booking
// approval, driver allocation and taxi monitoring.
type ManagerDashboard struct {
	PendingApprovals int       `json:"pendingApprovals,omitempty"`
	Bookings         []Booking `json:"bookings,omitempty"`
	Drivers          []Driver  `json:"drivers,omitempty"`
	Taxis            []Taxi    `json:"taxis,omitempty"`
	StatusFilter     string    `json:"statusFilter,omitempty"`
	SearchTerm       string    `json:"searchTerm,omitempty"`
	ActiveTab        string    `json:"activeTab,omitempty"`
}

// AdminDashboard is the cached state of the admin dashboard: fleet,
// maintenance, used-car sales and reports.
type AdminDashboard struct {
	Cars         []Car               `json:"cars,omitempty"`
	Maintenance  []MaintenanceRecord `json:"maintenance,omitempty"`
	UsedCarSales []UsedCarSale       `json:"usedCarSales,omitempty"`
	Reports      *ReportSummary      `json:"reports,omitempty"`
	ActiveTab    string              `json:"activeTab,omitempty"`
}

// NavigationState is the global navigation snapshot.
type NavigationState struct {
	CurrentPage      string            `json:"currentPage,omitempty"`
	SelectedRole     string            `json:"selectedRole,omitempty"`
	SidebarCollapsed bool              `json:"sidebarCollapsed,omitempty"`
	LastVisited      map[string]string `json:"lastVisited,omitempty"` // role -> path
	Extra            map[string]any    `json:"extra,omitempty"`
}
