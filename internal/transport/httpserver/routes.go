package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"cashbook-go/internal/config"
	"cashbook-go/internal/transport/httpserver/handler"
	authmw "cashbook-go/internal/transport/httpserver/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, tokens authmw.TokenVerifier) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.AllowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Post("/auth/register", handlers.Register)
		r.Post("/auth/login", handlers.Login)

		// Token endpoints are public, the invitee has no session yet.
		r.Get("/invitations/{token}", handlers.GetInvitationByToken)
		r.Post("/invitations/{token}/accept", handlers.AcceptInvitation)

		auth := authmw.NewJWTAuth(tokens)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.Me)

			r.Get("/accounts", handlers.ListAccounts)
			r.Post("/accounts", handlers.CreateAccount)

			r.Route("/accounts/{account_id}", func(r chi.Router) {
				r.Get("/", handlers.GetAccount)
				r.Patch("/", handlers.UpdateAccount)
				r.Delete("/", handlers.DeleteAccount)

				r.Get("/members", handlers.ListMembers)
				r.Get("/members/me", handlers.MyMembership)
				r.Patch("/members/{member_id}", handlers.UpdateMember)
				r.Delete("/members/{member_id}", handlers.RemoveMember)

				r.Get("/invitations", handlers.ListInvitations)
				r.Post("/invitations", handlers.CreateInvitation)
				r.Post("/invitations/{invitation_id}/resend", handlers.ResendInvitation)
				r.Delete("/invitations/{invitation_id}", handlers.CancelInvitation)

				r.Post("/transfer", handlers.InitiateOwnershipTransfer)
				r.Get("/transfer", handlers.GetTransferStatus)
				r.Post("/transfer/{transfer_id}/correction", handlers.RequestOwnershipCorrection)

				r.Get("/categories", handlers.ListCategories)
				r.Post("/categories", handlers.AddCategory)
				r.Delete("/categories/{category_id}", handlers.RemoveCategory)

				r.Get("/people", handlers.ListPeople)
				r.Post("/people", handlers.AddPerson)
				r.Delete("/people/{person_id}", handlers.RemovePerson)

				r.Get("/weeks", handlers.ListWeeks)
				r.Post("/weeks", handlers.CreateWeek)
				r.Get("/weeks/{week_id}", handlers.GetWeek)
				r.Patch("/weeks/{week_id}", handlers.UpdateWeek)
				r.Delete("/weeks/{week_id}", handlers.DeleteWeek)
				r.Post("/weeks/{week_id}/lock", handlers.LockWeek)
				r.Post("/weeks/{week_id}/cash", handlers.AddCashToBox)
				r.Post("/weeks/{week_id}/bank-transfer", handlers.TransferBankToCash)
				r.Get("/weeks/{week_id}/cash-transactions", handlers.ListCashTransactions)

				r.Get("/expenses", handlers.ListExpenses)
				r.Post("/expenses", handlers.CreateExpense)
				r.Get("/expenses/{expense_id}", handlers.GetExpense)
				r.Patch("/expenses/{expense_id}", handlers.UpdateExpense)
				r.Delete("/expenses/{expense_id}", handlers.DeleteExpense)

				r.Get("/bank-accounts", handlers.ListBankAccounts)
				r.Post("/bank-accounts", handlers.AddBankAccount)
				r.Patch("/bank-accounts/{bank_account_id}", handlers.UpdateBankAccount)
				r.Delete("/bank-accounts/{bank_account_id}", handlers.RemoveBankAccount)

				r.Post("/children", handlers.CreateDownwardAccount)
				r.Post("/parent", handlers.LinkUpwardAccount)
				r.Post("/siblings", handlers.LinkSidewaysAccount)
				r.Get("/relationships", handlers.ListRelationships)
				r.Delete("/relationships/{relationship_id}", handlers.RemoveRelationship)

				r.Get("/activity", handlers.ListActivity)
			})
		})
	})

	return r
}
