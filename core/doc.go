// Package core contains the canonical membership platform contracts,
// domain entities, configuration, and service orchestration. Lower-level
// adapters must depend on this package; core must not depend on
// transport-specific or storage-specific adapters.
package core
