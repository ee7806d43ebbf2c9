// Package pythondeps installs Python dependencies declared in a requirements
// manifest ahead of packaging.
package pythondeps
