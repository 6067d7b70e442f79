// Package cache provides short-TTL response caching for the REST proxy.
//
// Two backends share one interface: an in-process map for single-instance
// deployments and Redis for fleets that want shared hit rates. The backend is
// picked by configuration; leaving the Redis address empty selects memory.
package cache
