package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name CanonicalRepository --dir ../domain/game --output domain/game --outpkg gamemock --filename canonical_repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name SourceRepository --dir ../domain/game --output domain/game --outpkg gamemock --filename source_repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/team --output domain/team --outpkg teammock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name MappingRepository --dir ../domain/identity --output domain/identity --outpkg identitymock --filename mapping_repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name IssueRepository --dir ../domain/identity --output domain/identity --outpkg identitymock --filename issue_repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/validation --output domain/validation --outpkg validationmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/pipeline --output domain/pipeline --outpkg pipelinemock --filename repository_mock.go
