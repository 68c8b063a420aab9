/*
Package session implements session management and persistence orchestration.

It provides high-level abstractions for handling concurrent access to dialogue
sessions: concurrent turns for the same user are serialized via per-user locks
while turns for different users proceed independently, optionally coordinated
across replicas with a distributed locker.
*/
package session
