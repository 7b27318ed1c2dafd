package bot

import (
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/access"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/chat"
)

// Button data. Actions taking an id are encoded with chat.Action.
const (
	actCancel = "cancel"

	actAdminMenu    = "adm_menu"
	actCreateClub   = "adm_create"
	actManageClubs  = "adm_manage"
	actListClubs    = "adm_list"
	actSelectClub   = "club_select"
	actClubBudget   = "club_budget"
	actClubManager  = "club_manager"
	actClubDelete   = "club_delete"
	actClubDeleteOK = "club_delete_yes"

	actAdmins      = "own_admins"
	actAddAdmin    = "own_admin_add"
	actRemoveAdmin = "own_admin_rm"
	actMaintenance = "own_maint"

	actUserMenu  = "usr_menu"
	actInfo      = "usr_info"
	actUpgrade   = "usr_upgrade"
	actUpgradeDo = "usr_upgrade_do"
	actExpenses  = "usr_expenses"
	actIncomes   = "usr_incomes"
	actHistory   = "usr_history"
)

const (
	textUseStart        = "Use /start to open the menu."
	textUnknownCommand  = "Unknown command. Use /start or /cancel."
	textCancelled       = "Cancelled."
	textNothingToCancel = "Nothing to cancel."
)

func btn(label, action string) chat.Button {
	return chat.Button{Label: label, Action: action}
}

var cancelButton = btn("✖️ Cancel", actCancel)

// prompt is a workflow question with a cancel button under it.
func prompt(text string) chat.Reply {
	return chat.Text(text).Row(cancelButton)
}

func adminMenu(text string, role access.Role, maintenance bool) chat.Reply {
	r := chat.Text(text).
		Row(btn("➕ Create club", actCreateClub)).
		Row(btn("💰 Manage clubs", actManageClubs)).
		Row(btn("📋 Club list", actListClubs))
	if role == access.RoleOwner {
		mode := "OFF"
		if maintenance {
			mode = "ON"
		}
		r = r.Row(btn("👮 Administrators", actAdmins)).
			Row(btn("⚙️ Maintenance: "+mode, actMaintenance))
	}
	return r
}

func userMenu(text string) chat.Reply {
	return chat.Text(text).
		Row(btn("🏟 My club", actInfo)).
		Row(btn("🛠 Upgrade stadium", actUpgrade)).
		Row(btn("📉 Expenses", actExpenses), btn("📈 Income", actIncomes)).
		Row(btn("🔄 History", actHistory))
}

func clubActions(text string, clubID int64) chat.Reply {
	return chat.Text(text).
		Row(btn("💰 Adjust budget", chat.Action(actClubBudget, clubID))).
		Row(btn("👤 Change manager", chat.Action(actClubManager, clubID))).
		Row(btn("❌ Delete club", chat.Action(actClubDelete, clubID))).
		Row(btn("🔙 Back to clubs", actManageClubs))
}
