// Package auth implements the console's permission model.
//
// A session's permissions are resolved once, at login, into an immutable
// PermissionRecord. Three login paths produce records:
//
//   - Entra ID (OIDC): InitializePermissions maps the identity-provider
//     group memberships to a role, correlates the external identity to a
//     SafeQ account, and derives the allowed departments from that account's
//     groups.
//   - Emergency local credential: LocalProvider authenticates against the
//     console database (argon2id) and issues a superadmin record.
//   - Cloud-local card id: AuthenticateCloudLocal verifies a SafeQ-stored
//     card identifier and issues a school_manager record.
//
// Departments are not materialized entities: a department is the verbatim
// name of a SafeQ group ending in a hyphen and a numeric site code (see
// ExtractDepartments). A record's DepartmentScope is either unrestricted
// (superadmin only) or an explicit department list; FilterUsers,
// FilterGroups and FilterDocuments apply that scope to every backend
// listing.
package auth
