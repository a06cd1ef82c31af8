// Copyright (c) 2026 Academix. All rights reserved.
// Author: duc.lehoang.dev@gmail.com

// Minimal page handlers for the gated administration shell.
//
// The real front-end is a separate client application; these endpoints exist
// so the session gate has concrete routes to guard and so deployments can
// smoke-test the full verify/refresh/deny flow end to end.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lehoangduc/academix/internal/platform/constants"
	"github.com/lehoangduc/academix/internal/platform/ctxutil"
)

// registerPages mounts the page surface on a gate-wrapped router group.
func registerPages(pages chi.Router) {
	pages.Get(constants.RouteHome, pageHome)
	pages.Get("/dashboard", pageDashboard)
	pages.Get(constants.RouteSignIn, staticPage("Sign in"))
	pages.Get("/sign-up", staticPage("Sign up"))
	pages.Get(constants.RoutePendingVerification, staticPage("Verification pending"))
	pages.Get(constants.RoutePendingVerification+"/*", staticPage("Verification pending"))
}

func pageHome(writer http.ResponseWriter, request *http.Request) {
	claims := ctxutil.GetAuthUser(request.Context())

	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(writer, "<h1>Academix</h1><p>Signed in as %s</p>", claims.AdminID)
}

func pageDashboard(writer http.ResponseWriter, request *http.Request) {
	claims := ctxutil.GetAuthUser(request.Context())

	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(writer, "<h1>Dashboard</h1><p>%s (%s)</p>", claims.AdminID, claims.Role)
}

// staticPage renders a fixed shell for the public pages the gate lets
// anonymous visitors reach.
func staticPage(title string) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(writer, "<h1>%s</h1>", title)
	}
}
