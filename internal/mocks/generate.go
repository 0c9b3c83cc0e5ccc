// Package mocks provides gomock mocks for the ports declared in internal/core.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	store := mocks.NewMockFeatureStore(ctrl)
//	store.EXPECT().SetStatus(gomock.Any(), key, model.StatusProcessing).Return(true, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=job_client_mock.go github.com/watchme/emotion-hume/internal/core JobClient
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=feature_store_mock.go github.com/watchme/emotion-hume/internal/core FeatureStore
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=audio_file_store_mock.go github.com/watchme/emotion-hume/internal/core AudioFileStore
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=url_signer_mock.go github.com/watchme/emotion-hume/internal/core URLSigner
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=completion_publisher_mock.go github.com/watchme/emotion-hume/internal/core CompletionPublisher
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=key_guard_mock.go github.com/watchme/emotion-hume/internal/core KeyGuard
