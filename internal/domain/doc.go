// Package domain contains the core business entities, value objects, and
// domain rules of the todo API. It is independent of any specific
// infrastructure or delivery mechanism: the task store backends, the service
// layer and the HTTP handlers all speak in terms of the types defined here.
package domain
