package dto

type GoalsInput struct {
	BooksPerMonth int `json:"booksPerMonth" validate:"gte=1"`
	MinutesPerDay int `json:"minutesPerDay" validate:"gte=1"`
}

type GoalsOutput struct {
	BooksPerMonth int
	MinutesPerDay int
}

type MonthCountOutput struct {
	Month string
	Count int
}

type SessionOutput struct {
	ID          int64
	BookID      int64
	BookTitle   string
	SessionDate string
	MinutesRead int
	PagesRead   int
}

type ProjectionOutput struct {
	TotalBooks           int
	ToReadBooks          int
	ReadingBooks         int
	FinishedBooks        int
	DroppedBooks         int
	MinutesReadToday     int
	MinutesReadThisMonth int
	BooksPerMonthGoal    int
	MinutesPerDayGoal    int
	MonthlyFinished      []MonthCountOutput
	RecentSessions       []SessionOutput
}
