// Package api exposes the task service over HTTP. Handlers decode requests,
// call service.TaskService, and map results and errors onto JSON responses;
// clients never see internal error detail.
package api
