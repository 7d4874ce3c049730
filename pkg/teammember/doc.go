// Package teammember implements the team member account lifecycle: admins
// invite, update, deactivate and remove team members; invited members set a
// password through a single-use invite token and log in to obtain a session
// credential bound to their owning admin.
package teammember
