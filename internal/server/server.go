package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opencanteen/mensa/internal/adjustment"
	adjustmentdomain "github.com/opencanteen/mensa/internal/adjustment/domain"
	"github.com/opencanteen/mensa/internal/auth"
	"github.com/opencanteen/mensa/internal/budget"
	budgetdomain "github.com/opencanteen/mensa/internal/budget/domain"
	"github.com/opencanteen/mensa/internal/bulkimport"
	bulkimportdomain "github.com/opencanteen/mensa/internal/bulkimport/domain"
	"github.com/opencanteen/mensa/internal/clock"
	"github.com/opencanteen/mensa/internal/config"
	"github.com/opencanteen/mensa/internal/directory"
	"github.com/opencanteen/mensa/internal/employee"
	employeedomain "github.com/opencanteen/mensa/internal/employee/domain"
	"github.com/opencanteen/mensa/internal/ingredient"
	ingredientdomain "github.com/opencanteen/mensa/internal/ingredient/domain"
	"github.com/opencanteen/mensa/internal/leave"
	leavedomain "github.com/opencanteen/mensa/internal/leave/domain"
	"github.com/opencanteen/mensa/internal/lock"
	"github.com/opencanteen/mensa/internal/meal"
	mealdomain "github.com/opencanteen/mensa/internal/meal/domain"
	"github.com/opencanteen/mensa/internal/mealtype"
	mealtypedomain "github.com/opencanteen/mensa/internal/mealtype/domain"
	"github.com/opencanteen/mensa/internal/migration"
	obsmetrics "github.com/opencanteen/mensa/internal/observability/metrics"
	"github.com/opencanteen/mensa/internal/order"
	orderdomain "github.com/opencanteen/mensa/internal/order/domain"
	"github.com/opencanteen/mensa/internal/organization"
	organizationdomain "github.com/opencanteen/mensa/internal/organization/domain"
	"github.com/opencanteen/mensa/internal/paye"
	payedomain "github.com/opencanteen/mensa/internal/paye/domain"
	"github.com/opencanteen/mensa/internal/payroll"
	payrolldomain "github.com/opencanteen/mensa/internal/payroll/domain"
	"github.com/opencanteen/mensa/internal/providers"
	"github.com/opencanteen/mensa/internal/schedule"
	scheduledomain "github.com/opencanteen/mensa/internal/schedule/domain"
	"github.com/opencanteen/mensa/internal/scheduler"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	clock.Module,
	lock.Module,
	directory.Module,
	providers.Module,
	auth.Module,
	organization.Module,
	employee.Module,
	mealtype.Module,
	meal.Module,
	ingredient.Module,
	order.Module,
	schedule.Module,
	budget.Module,
	adjustment.Module,
	paye.Module,
	leave.Module,
	payroll.Module,
	bulkimport.Module,
	migration.Module,
	scheduler.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(obsmetrics.Middleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger) *gin.Engine {
	return NewEngine(log)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	log    *zap.Logger

	userVerifier  auth.UserVerifier
	adminVerifier auth.AdminVerifier

	organizationSvc organizationdomain.Service
	employeeSvc     employeedomain.Service
	mealTypeSvc     mealtypedomain.Service
	mealSvc         mealdomain.Service
	ingredientSvc   ingredientdomain.Service
	orderSvc        orderdomain.Service
	scheduleSvc     scheduledomain.Service
	budgetSvc       budgetdomain.Service
	adjustmentSvc   adjustmentdomain.Service
	indiAdjustSvc   adjustmentdomain.IndividualService
	payeSvc         payedomain.Service
	leaveSvc        leavedomain.Service
	payrollSvc      payrolldomain.Service
	bulkImportSvc   bulkimportdomain.Service
}

type ServerParams struct {
	fx.In

	Gin *gin.Engine
	Cfg config.Config
	Log *zap.Logger

	UserVerifier  auth.UserVerifier
	AdminVerifier auth.AdminVerifier

	OrganizationSvc organizationdomain.Service
	EmployeeSvc     employeedomain.Service
	MealTypeSvc     mealtypedomain.Service
	MealSvc         mealdomain.Service
	IngredientSvc   ingredientdomain.Service
	OrderSvc        orderdomain.Service
	ScheduleSvc     scheduledomain.Service
	BudgetSvc       budgetdomain.Service
	AdjustmentSvc   adjustmentdomain.Service
	IndiAdjustSvc   adjustmentdomain.IndividualService
	PayeSvc         payedomain.Service
	LeaveSvc        leavedomain.Service
	PayrollSvc      payrolldomain.Service
	BulkImportSvc   bulkimportdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		log:             p.Log.Named("server"),
		userVerifier:    p.UserVerifier,
		adminVerifier:   p.AdminVerifier,
		organizationSvc: p.OrganizationSvc,
		employeeSvc:     p.EmployeeSvc,
		mealTypeSvc:     p.MealTypeSvc,
		mealSvc:         p.MealSvc,
		ingredientSvc:   p.IngredientSvc,
		orderSvc:        p.OrderSvc,
		scheduleSvc:     p.ScheduleSvc,
		budgetSvc:       p.BudgetSvc,
		adjustmentSvc:   p.AdjustmentSvc,
		indiAdjustSvc:   p.IndiAdjustSvc,
		payeSvc:         p.PayeSvc,
		leaveSvc:        p.LeaveSvc,
		payrollSvc:      p.PayrollSvc,
		bulkImportSvc:   p.BulkImportSvc,
	}

	svc.registerRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	authed := s.EitherAuthRequired()
	admin := []gin.HandlerFunc{s.EitherAuthRequired(), s.RequireRole("admin", "hr")}

	user := s.engine.Group("/user")
	user.GET("", authed, s.ListEmployees)
	user.GET("/:code", authed, s.GetEmployee)
	user.POST("", append(admin, s.CreateEmployee)...)
	user.PATCH("/:code", append(admin, s.UpdateEmployee)...)
	user.DELETE("/:code", append(admin, s.DeleteEmployee)...)
	user.POST("/import", append(admin, s.ImportEmployees)...)

	mealTypes := s.engine.Group("/meal-types")
	mealTypes.GET("", authed, s.ListMealTypes)
	mealTypes.GET("/:id", authed, s.GetMealType)
	mealTypes.POST("", append(admin, s.CreateMealType)...)
	mealTypes.PATCH("/:id", append(admin, s.UpdateMealType)...)
	mealTypes.DELETE("/:id", append(admin, s.DeleteMealType)...)

	meals := s.engine.Group("/meal")
	meals.GET("", authed, s.ListMeals)
	meals.GET("/:id", authed, s.GetMeal)
	meals.POST("", append(admin, s.CreateMeal)...)
	meals.PATCH("/:id", append(admin, s.UpdateMeal)...)
	meals.DELETE("/:id", append(admin, s.DeleteMeal)...)

	ingredients := s.engine.Group("/ingredients")
	ingredients.GET("", authed, s.ListIngredients)
	ingredients.GET("/price-variance", append(admin, s.IngredientPriceVariance)...)
	ingredients.GET("/:id", authed, s.GetIngredient)
	ingredients.POST("", append(admin, s.CreateIngredient)...)
	ingredients.PATCH("/:id", append(admin, s.UpdateIngredient)...)
	ingredients.DELETE("/:id", append(admin, s.DeleteIngredient)...)

	orders := s.engine.Group("/order")
	orders.GET("", authed, s.ListOrders)
	orders.GET("/:id", authed, s.GetOrder)
	orders.POST("", authed, s.CreateOrder)
	orders.POST("/:id/serve", append(admin, s.ServeOrder)...)
	orders.DELETE("/:id", authed, s.DeleteOrder)

	s.engine.GET("/meals-serving", authed, s.MealsServing)

	schedules := s.engine.Group("/schedule")
	schedules.GET("", authed, s.ListSchedules)
	schedules.GET("/:id", authed, s.GetSchedule)
	schedules.POST("", append(admin, s.CreateSchedule)...)
	schedules.PATCH("/:id", append(admin, s.UpdateSchedule)...)
	schedules.DELETE("/:id", append(admin, s.DeleteSchedule)...)

	budgets := s.engine.Group("/budgets")
	budgets.GET("", append(admin, s.ListBudgets)...)
	budgets.GET("/:id", append(admin, s.GetBudget)...)
	budgets.POST("", append(admin, s.CreateBudget)...)
	budgets.PATCH("/:id", append(admin, s.UpdateBudget)...)
	budgets.DELETE("/:id", append(admin, s.DeleteBudget)...)

	adjustments := s.engine.Group("/adjustment")
	adjustments.GET("", append(admin, s.ListAdjustments)...)
	adjustments.GET("/:id", append(admin, s.GetAdjustment)...)
	adjustments.POST("", append(admin, s.CreateAdjustment)...)
	adjustments.PATCH("/:id", append(admin, s.UpdateAdjustment)...)
	adjustments.DELETE("/:id", append(admin, s.DeleteAdjustment)...)

	indiAdjustments := s.engine.Group("/indiadjustment")
	indiAdjustments.GET("", append(admin, s.ListIndividualAdjustments)...)
	indiAdjustments.GET("/:id", append(admin, s.GetIndividualAdjustment)...)
	indiAdjustments.POST("", append(admin, s.CreateIndividualAdjustment)...)
	indiAdjustments.PATCH("/:id", append(admin, s.UpdateIndividualAdjustment)...)
	indiAdjustments.DELETE("/:id", append(admin, s.DeleteIndividualAdjustment)...)

	s.engine.GET("/paye", append(admin, s.ListPayeSlabs)...)
	s.engine.PUT("/paye", append(admin, s.ReplacePayeSlabs)...)

	leaves := s.engine.Group("/leave-application")
	leaves.GET("", authed, s.ListLeaveApplications)
	leaves.GET("/:id", authed, s.GetLeaveApplication)
	leaves.POST("", authed, s.CreateLeaveApplication)
	leaves.PATCH("/:id", authed, s.UpdateLeaveApplication)
	leaves.DELETE("/:id", authed, s.DeleteLeaveApplication)
	leaves.POST("/:id/approve", append(admin, s.ApproveLeaveApplication)...)
	leaves.POST("/:id/reject", append(admin, s.RejectLeaveApplication)...)

	s.engine.GET("/payroll/:code/payslip", authed, s.GetPayslip)

	orgs := s.engine.Group("/organization")
	orgs.GET("", authed, s.ListOrganizations)
	orgs.GET("/:id", authed, s.GetOrganization)
	orgs.POST("", append(admin, s.CreateOrganization)...)
	orgs.PATCH("/:id", append(admin, s.UpdateOrganization)...)
}
