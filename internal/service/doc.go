// Package service contains the application services: the generation
// orchestrator that runs one execution unit per task, the transactional
// version recorder that applies the primary-version rule, and the thin
// shot/version collaborator services the HTTP layer talks to.
package service
