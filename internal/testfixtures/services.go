package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/attendance-portal/internal/application"
	"github.com/example/attendance-portal/internal/logging"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
	Location    *time.Location
	Logger      *slog.Logger
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with a 09:00 clock, "session"
// identifiers, UTC dates and a discarding logger.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("session")
	}
	if factory.Location == nil {
		factory.Location = time.UTC
	}
	if factory.Logger == nil {
		factory.Logger = logging.Discard()
	}
	return factory
}

func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) { factory.Clock = clock }
}

func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) { factory.IDGenerator = generator }
}

func WithLocation(loc *time.Location) ServiceFactoryOption {
	return func(factory *ServiceFactory) { factory.Location = loc }
}

func WithLogger(logger *slog.Logger) ServiceFactoryOption {
	return func(factory *ServiceFactory) { factory.Logger = logger }
}

// Services bundles every attendance service over one store.
type Services struct {
	Attendance *application.AttendanceService
	Today      *application.TodayService
	Admin      *application.AdminQueryService
	History    *application.HistoryService
}

// NewServices wires all services to sessions and directory.
func (f *ServiceFactory) NewServices(sessions application.SessionRepository, directory application.EmployeeDirectory) Services {
	now := f.Clock.NowFunc()
	return Services{
		Attendance: application.NewAttendanceServiceWithLogger(sessions, f.IDGenerator.NextFunc(), now, f.Location, f.Logger),
		Today:      application.NewTodayServiceWithLogger(sessions, now, f.Location, f.Logger),
		Admin:      application.NewAdminQueryServiceWithLogger(sessions, directory, f.Logger),
		History:    application.NewHistoryServiceWithLogger(sessions, directory, f.Logger),
	}
}
