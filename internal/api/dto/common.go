package dto

type ErrorResponse struct {
	Error string `json:"error"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type DeleteResponse struct {
	Status       string `json:"status"`
	Acknowledged bool   `json:"acknowledged"`
	DeletedCount int64  `json:"deletedCount"`
}

type SignupRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type CountResponse struct {
	DriverCount  int64 `json:"driverCount"`
	PackageCount int64 `json:"packageCount"`
}

type StatisticsResponse struct {
	CreateCount int64 `json:"createCount"`
	ReadCount   int64 `json:"readCount"`
	UpdateCount int64 `json:"updateCount"`
	DeleteCount int64 `json:"deleteCount"`
}
