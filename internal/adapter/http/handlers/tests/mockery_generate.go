package tests

// Regenerate the task service mock after changing the ports interfaces:
//
//   go generate ./internal/adapter/http/handlers/tests
//
//go:generate mockery --name TaskService --dir ../../../../core/ports --output ./mocks --outpkg mocks --filename task_service_mock.go --with-expecter
//go:generate mockery --name TaskRepository --dir ../../../../core/ports --output ./mocks --outpkg mocks --filename task_repository_mock.go --with-expecter
