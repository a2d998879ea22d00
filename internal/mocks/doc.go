// Package mocks provides shared function-field mocks for interfaces that
// several test packages need to stub, such as auth.JWTService and
// service.TaskService.
//
// Each mock has one optional function field per method; when a field is nil
// the mock returns its default values instead:
//
//	jwtService := &mocks.MockJWTService{
//		ValidateTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
//			return &auth.Claims{Subject: "client"}, nil
//		},
//	}
package mocks
