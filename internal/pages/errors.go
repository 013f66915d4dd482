// Package pages contains Playwright page objects for the Kronos web
// management interface. Each page object binds a browser page handle to a
// capability view resolved once at construction; operations pick locators and
// timeouts from that view.
//
// Operations separate two failure classes. Degraded outcomes, such as an
// operation that does not apply to this hardware or an expected element that
// is absent, are typed sentinel errors callers branch on (usually to skip).
// Broken operations, such as the browser driver failing, propagate wrapped so
// tests fail loudly instead of silently passing.
package pages

import "errors"

var (
	// ErrNotApplicable marks an operation that does not exist on the
	// device's series, such as panel expansion on Series 2.
	ErrNotApplicable = errors.New("operation not applicable to this device series")

	// ErrUnknownInterface marks a request against an interface the resolved
	// capability view does not list.
	ErrUnknownInterface = errors.New("interface not present on this device model")

	// ErrElementMissing marks a DOM query that found no matching element.
	ErrElementMissing = errors.New("expected element not found on page")

	// ErrAllFieldsFailed is returned by configuration operations when none
	// of the requested fields could be applied. Applying at least one field
	// counts as success.
	ErrAllFieldsFailed = errors.New("no requested field could be applied")

	// ErrSaveFailed means the page showed an explicit error marker after a
	// save was submitted.
	ErrSaveFailed = errors.New("error marker present after save")

	// ErrAuthRejected means the device refused the submitted password, by
	// posting an error message or by re-rendering the login form.
	ErrAuthRejected = errors.New("authentication rejected by device")
)
