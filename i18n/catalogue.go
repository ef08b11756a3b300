package i18n

var es = map[string]string{
	// validation codes
	"required":         "Requerido",
	"invalid":          "Valor inválido",
	"invalid_email":    "Correo inválido",
	"invalid_choice":   "Opción inválida",
	"too_small":        "Valor demasiado pequeño",
	"too_large":        "Valor demasiado grande",
	"must_be_positive": "Debe ser mayor que cero",
	"out_of_range":     "Fuera de rango",

	// session
	"login.title":          "Iniciar sesión",
	"login.email":          "Correo electrónico",
	"login.password":       "Contraseña",
	"login.submit":         "Entrar",
	"login.access_denied":  "Acceso denegado: solo administradores y miembros de junta pueden entrar al panel.",
	"login.account_status": "Tu cuenta no está activa.",
	"logout":               "Cerrar sesión",
	"session.expired":      "Tu sesión expiró. Inicia sesión de nuevo.",

	// navigation
	"nav.dashboard": "Panel",
	"nav.buildings": "Edificios",
	"nav.users":     "Usuarios",
	"nav.invoices":  "Facturas",
	"nav.payments":  "Pagos",
	"nav.debt":      "Generar deuda",
	"scope.label":   "Edificio",
	"scope.none":    "Sin edificios disponibles",
	"scope.changed": "Edificio seleccionado",
	"scope.invalid": "Edificio no disponible",

	// dashboard
	"dashboard.title":            "Panel",
	"dashboard.units":            "Unidades",
	"dashboard.residents":        "Residentes",
	"dashboard.pending_invoices": "Facturas pendientes",
	"dashboard.outstanding":      "Deuda pendiente",
	"dashboard.collected":        "Cobrado",
	"dashboard.collection_rate":  "Tasa de cobranza",
	"dashboard.pending_payments": "Pagos por revisar",
	"dashboard.solvent_units":    "Unidades solventes",

	// buildings & units
	"building.placeholder": "Edificio",
	"building.name":        "Nombre",
	"building.address":     "Dirección",
	"building.rif":         "RIF",
	"building.monthly_fee": "Cuota mensual",
	"building.new":         "Nuevo edificio",
	"building.edit":        "Editar edificio",
	"building.created":     "Edificio creado",
	"building.updated":     "Edificio actualizado",
	"building.deleted":     "Edificio eliminado",
	"unit.name":            "Unidad",
	"unit.floor":           "Piso",
	"unit.aliquot":         "Alícuota",
	"unit.created":         "Unidad creada",
	"unit.balance":         "Saldo de la unidad",
	"unit.solvent":         "Solvente",
	"unit.insolvent":       "Con deuda",

	// users
	"user.new":      "Nuevo usuario",
	"user.edit":     "Editar usuario",
	"user.name":     "Nombre",
	"user.email":    "Correo",
	"user.role":     "Rol",
	"user.status":   "Estado",
	"user.created":  "Usuario creado",
	"user.updated":  "Usuario actualizado",
	"user.deleted":  "Usuario eliminado",
	"user.approve":  "Aprobar",
	"user.reject":   "Rechazar",
	"role.admin":    "Administrador",
	"role.board":    "Junta de condominio",
	"role.resident": "Residente",

	// billing
	"invoice.number":     "Número",
	"invoice.amount":     "Monto",
	"invoice.paid":       "Pagado",
	"invoice.progress":   "Progreso",
	"invoice.overpaid":   "Pagada en exceso",
	"invoice.consistent": "Asignaciones cuadran con lo pagado",
	"invoice.mismatch":   "Las asignaciones no cuadran con lo pagado",
	"invoice.period":     "Período",
	"invoice.due":        "Vence",
	"payment.amount":     "Monto total",
	"payment.allocated":  "Asignado a esta factura",
	"payment.method":     "Método",
	"payment.reference":  "Referencia",
	"payment.approve":    "Aprobar",
	"payment.reject":     "Rechazar",
	"payment.reviewed":   "Pago revisado",
	"payment.partial":    "No se pudieron cargar las asignaciones del pago",
	"payment.current":    "Factura actual",
	"debt.title":         "Generar deuda",
	"debt.generated":     "Deuda generada",
	"status.PENDING":     "Pendiente",
	"status.PAID":        "Pagada",
	"status.CANCELLED":   "Anulada",
	"status.APPROVED":    "Aprobado",
	"status.REJECTED":    "Rechazado",
	"status.active":      "Activo",
	"status.pending":     "Pendiente",
	"status.inactive":    "Inactivo",
	"status.rejected":    "Rechazado",

	// generic
	"save":            "Guardar",
	"cancel":          "Cancelar",
	"delete":          "Eliminar",
	"edit":            "Editar",
	"view":            "Ver",
	"empty":           "Sin registros",
	"error.generic":   "Ocurrió un error. Intenta de nuevo.",
	"error.forbidden": "No tienes permiso para esta acción.",
	"error.not_found": "No encontrado",

	// pages
	"search":                    "Buscar",
	"all":                       "Todos",
	"back":                      "Volver",
	"confirm.delete":            "¿Eliminar este registro?",
	"form.has_errors":           "Revisa los campos marcados.",
	"unit.new":                  "Nueva unidad",
	"user.activate":             "Activar",
	"user.deactivate":           "Desactivar",
	"user.password_hint":        "Déjala en blanco para no cambiarla.",
	"user.status_changed":       "Estado actualizado",
	"user.self_status":          "No puedes cambiar el estado de tu propia cuenta.",
	"user.self_delete":          "No puedes eliminar tu propia cuenta.",
	"user.self_role":            "No puedes cambiar el rol de tu propia cuenta.",
	"user.admin_protected":      "Solo un administrador puede modificar a otro administrador.",
	"dashboard.solvency":        "Solvencia por unidad",
	"dashboard.recent_invoices": "Facturas recientes",
	"invoice.outstanding":       "Pendiente",
	"payment.date":              "Fecha",
	"payment.detail":            "Detalle del pago",
	"payment.proof":             "Comprobante",
	"payment.allocations":       "Asignaciones",
	"payment.unallocated":       "Sin asignar",
	"payment.reason":            "Motivo del rechazo",
	"payment.approved":          "Pago aprobado",
	"payment.rejected":          "Pago rechazado",
	"method.PAGO_MOVIL":         "Pago móvil",
	"method.TRANSFER":           "Transferencia",
	"method.CASH":               "Efectivo",
	"debt.year":                 "Año",
	"debt.month":                "Mes",
	"debt.description":          "Descripción",
	"debt.hint":                 "Se emitirá una factura por unidad, repartida según la alícuota.",
	"debt.submit":               "Generar",
	"balance.invoiced":          "Total facturado",
	"balance.paid":              "Total pagado",
	"balance.balance":           "Saldo",
}

var en = map[string]string{
	"required":         "Required",
	"invalid":          "Invalid value",
	"invalid_email":    "Invalid email",
	"invalid_choice":   "Invalid choice",
	"too_small":        "Value too small",
	"too_large":        "Value too large",
	"must_be_positive": "Must be greater than zero",
	"out_of_range":     "Out of range",

	"login.title":          "Sign in",
	"login.email":          "Email",
	"login.password":       "Password",
	"login.submit":         "Sign in",
	"login.access_denied":  "Access denied: only administrators and board members may use the panel.",
	"login.account_status": "Your account is not active.",
	"logout":               "Sign out",
	"session.expired":      "Your session expired. Please sign in again.",

	"nav.dashboard": "Dashboard",
	"nav.buildings": "Buildings",
	"nav.users":     "Users",
	"nav.invoices":  "Invoices",
	"nav.payments":  "Payments",
	"nav.debt":      "Generate debt",
	"scope.label":   "Building",
	"scope.none":    "No buildings available",
	"scope.changed": "Building selected",
	"scope.invalid": "Building not available",

	"dashboard.title":            "Dashboard",
	"dashboard.units":            "Units",
	"dashboard.residents":        "Residents",
	"dashboard.pending_invoices": "Pending invoices",
	"dashboard.outstanding":      "Outstanding",
	"dashboard.collected":        "Collected",
	"dashboard.collection_rate":  "Collection rate",
	"dashboard.pending_payments": "Payments to review",
	"dashboard.solvent_units":    "Solvent units",

	"building.placeholder": "Building",
	"building.name":        "Name",
	"building.address":     "Address",
	"building.rif":         "Tax ID",
	"building.monthly_fee": "Monthly fee",
	"building.new":         "New building",
	"building.edit":        "Edit building",
	"building.created":     "Building created",
	"building.updated":     "Building updated",
	"building.deleted":     "Building deleted",
	"unit.name":            "Unit",
	"unit.floor":           "Floor",
	"unit.aliquot":         "Aliquot",
	"unit.created":         "Unit created",
	"unit.balance":         "Unit balance",
	"unit.solvent":         "Solvent",
	"unit.insolvent":       "In debt",

	"user.new":      "New user",
	"user.edit":     "Edit user",
	"user.name":     "Name",
	"user.email":    "Email",
	"user.role":     "Role",
	"user.status":   "Status",
	"user.created":  "User created",
	"user.updated":  "User updated",
	"user.deleted":  "User deleted",
	"user.approve":  "Approve",
	"user.reject":   "Reject",
	"role.admin":    "Administrator",
	"role.board":    "Board member",
	"role.resident": "Resident",

	"invoice.number":     "Number",
	"invoice.amount":     "Amount",
	"invoice.paid":       "Paid",
	"invoice.progress":   "Progress",
	"invoice.overpaid":   "Overpaid",
	"invoice.consistent": "Allocations match the paid amount",
	"invoice.mismatch":   "Allocations do not match the paid amount",
	"invoice.period":     "Period",
	"invoice.due":        "Due",
	"payment.amount":     "Payment total",
	"payment.allocated":  "Allocated to this invoice",
	"payment.method":     "Method",
	"payment.reference":  "Reference",
	"payment.approve":    "Approve",
	"payment.reject":     "Reject",
	"payment.reviewed":   "Payment reviewed",
	"payment.partial":    "Payment allocations could not be loaded",
	"payment.current":    "Current invoice",
	"debt.title":         "Generate debt",
	"debt.generated":     "Debt generated",
	"status.PENDING":     "Pending",
	"status.PAID":        "Paid",
	"status.CANCELLED":   "Cancelled",
	"status.APPROVED":    "Approved",
	"status.REJECTED":    "Rejected",
	"status.active":      "Active",
	"status.pending":     "Pending",
	"status.inactive":    "Inactive",
	"status.rejected":    "Rejected",

	"save":            "Save",
	"cancel":          "Cancel",
	"delete":          "Delete",
	"edit":            "Edit",
	"view":            "View",
	"empty":           "No records",
	"error.generic":   "Something went wrong. Please try again.",
	"error.forbidden": "You are not allowed to do that.",
	"error.not_found": "Not found",

	// pages
	"search":                    "Search",
	"all":                       "All",
	"back":                      "Back",
	"confirm.delete":            "Delete this record?",
	"form.has_errors":           "Please review the highlighted fields.",
	"unit.new":                  "New unit",
	"user.activate":             "Activate",
	"user.deactivate":           "Deactivate",
	"user.password_hint":        "Leave blank to keep the current password.",
	"user.status_changed":       "Status updated",
	"user.self_status":          "You cannot change your own account status.",
	"user.self_delete":          "You cannot delete your own account.",
	"user.self_role":            "You cannot change your own role.",
	"user.admin_protected":      "Only an administrator can edit another administrator.",
	"dashboard.solvency":        "Solvency by unit",
	"dashboard.recent_invoices": "Recent invoices",
	"invoice.outstanding":       "Outstanding",
	"payment.date":              "Date",
	"payment.detail":            "Payment detail",
	"payment.proof":             "Receipt",
	"payment.allocations":       "Allocations",
	"payment.unallocated":       "Unallocated",
	"payment.reason":            "Rejection reason",
	"payment.approved":          "Payment approved",
	"payment.rejected":          "Payment rejected",
	"method.PAGO_MOVIL":         "Mobile payment",
	"method.TRANSFER":           "Bank transfer",
	"method.CASH":               "Cash",
	"debt.year":                 "Year",
	"debt.month":                "Month",
	"debt.description":          "Description",
	"debt.hint":                 "One invoice per unit will be issued, split by aliquot.",
	"debt.submit":               "Generate",
	"balance.invoiced":          "Total invoiced",
	"balance.paid":              "Total paid",
	"balance.balance":           "Balance",
}
