package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/fixture --output domain/fixture --outpkg fixturemock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name SubmissionRepository --dir ../domain/fixture --output domain/fixture --outpkg fixturemock --filename submission_repository_mock.go
