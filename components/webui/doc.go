// Package webui serves the GeoIdentify form as server-rendered HTML.
//
// Routes (relative to the base path):
//   - GET / renders the feature form.
//   - POST /analyze reads the checked `feature` values, submits them and
//     renders the form again with results or an error line.
//   - GET /assets/... serves the theme stylesheet.
//
// Both page routes answer 200; backend failures are shown inside the page.
// The locale comes from the `lang` query parameter or Accept-Language.
package webui
