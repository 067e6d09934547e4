package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicFixtureRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/divisions/{divisionID}/fixtures", handler.ListFixturesByDivision)
	mux.HandleFunc("GET /v1/fixtures/{fixtureID}", handler.GetFixture)
	mux.HandleFunc("GET /v1/fixtures/{fixtureID}/players", handler.ListFixturePlayers)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedFixtureRoutes(mux, handler, verifier)
	registerAuthorizedSheetRoutes(mux, handler, verifier)
	registerAuthorizedMergeRoutes(mux, handler, verifier)
}

func registerAuthorizedFixtureRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/fixtures", RequireAuth(verifier, http.HandlerFunc(handler.CreateFixture)))
	mux.Handle("PUT /v1/fixtures/{fixtureID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateFixtureDetails)))
}

func registerAuthorizedSheetRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	const base = "/v1/fixtures/{fixtureID}/sheets/{sheet}"
	mux.Handle("GET "+base, RequireAuth(verifier, http.HandlerFunc(handler.GetSheet)))
	mux.Handle("PUT "+base+"/matches/{index}", RequireAuth(verifier, http.HandlerFunc(handler.SetSheetMatch)))
	mux.Handle("POST "+base+"/one-eighties", RequireAuth(verifier, http.HandlerFunc(handler.AddOneEighty)))
	mux.Handle("DELETE "+base+"/one-eighties/{index}", RequireAuth(verifier, http.HandlerFunc(handler.RemoveOneEighty)))
	mux.Handle("POST "+base+"/hi-checks", RequireAuth(verifier, http.HandlerFunc(handler.AddHiCheck)))
	mux.Handle("DELETE "+base+"/hi-checks/{index}", RequireAuth(verifier, http.HandlerFunc(handler.RemoveHiCheck)))
	mux.Handle("PUT "+base+"/man-of-the-match/{side}", RequireAuth(verifier, http.HandlerFunc(handler.SetSheetManOfTheMatch)))
}

func registerAuthorizedMergeRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/fixtures/{fixtureID}/merge", RequireAuth(verifier, http.HandlerFunc(handler.GetMergePlan)))
	mux.Handle("POST /v1/fixtures/{fixtureID}/merge/matches/{index}", RequireAuth(verifier, http.HandlerFunc(handler.AcceptMergeMatch)))
	mux.Handle("POST /v1/fixtures/{fixtureID}/merge/accolades/{category}", RequireAuth(verifier, http.HandlerFunc(handler.MergeAccolade)))
	mux.Handle("POST /v1/fixtures/{fixtureID}/merge/man-of-the-match/{side}", RequireAuth(verifier, http.HandlerFunc(handler.MergeManOfTheMatch)))
	mux.Handle("GET /v1/divisions/{divisionID}/merge/pending", RequireAuth(verifier, http.HandlerFunc(handler.ListPendingMerges)))
}
