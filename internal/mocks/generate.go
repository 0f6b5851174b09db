// Package mocks provides gomock implementations of the internal/core ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	t.Cleanup(ctrl.Finish)
//	jobs := mocks.NewMockJobRepository(ctrl)
//	jobs.EXPECT().GetByID(gomock.Any(), int64(7)).Return(job, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=job_repository_mock.go github.com/dtapi/booking-api/internal/core JobRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_repository_mock.go github.com/dtapi/booking-api/internal/core UserRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=job_cache_mock.go github.com/dtapi/booking-api/internal/core JobCache
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=translator_notifier_mock.go github.com/dtapi/booking-api/internal/core TranslatorNotifier
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=event_publisher_mock.go github.com/dtapi/booking-api/internal/core EventPublisher
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=push_sender_mock.go github.com/dtapi/booking-api/internal/core PushSender
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=sms_sender_mock.go github.com/dtapi/booking-api/internal/core SMSSender
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=cache_repository_mock.go github.com/dtapi/booking-api/internal/core CacheRepository
