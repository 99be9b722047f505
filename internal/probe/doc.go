// Package probe fires a single HTTP or HTTPS request described by a
// request.Descriptor and classifies the response against the set of status
// codes the check accepts. Transport failures and timeouts are reported as
// failed outcomes, never as errors.
package probe
