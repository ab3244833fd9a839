package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/linguahub/crm-service/internal/config"
	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/services"
	"github.com/linguahub/crm-service/internal/utils"
)

type HandlerManager struct {
	authHandler        *AuthHandler
	userHandler        *UserHandler
	leadHandler        *LeadHandler
	studentHandler     *StudentHandler
	paymentHandler     *PaymentHandler
	expenseHandler     *ExpenseHandler
	financeHandler     *FinanceHandler
	scheduleHandler    *ScheduleHandler
	teacherAreaHandler *TeacherAreaHandler
	logHandler         *LogHandler

	auth services.AuthService
}

func NewHandlerManager(sm services.ServiceManager, cfg *config.Config, logger utils.Logger) *HandlerManager {
	cookie := CookieSettings{
		Domain: cfg.CookieDomain,
		Secure: cfg.IsProduction(),
		MaxAge: cfg.TokenLifetime * 3600,
	}

	return &HandlerManager{
		authHandler:        NewAuthHandler(sm.Auth(), sm.User(), cookie, logger),
		userHandler:        NewUserHandler(sm.User(), logger),
		leadHandler:        NewLeadHandler(sm.Lead(), logger),
		studentHandler:     NewStudentHandler(sm.Student(), logger),
		paymentHandler:     NewPaymentHandler(sm.Payment(), logger),
		expenseHandler:     NewExpenseHandler(sm.Expense(), logger),
		financeHandler:     NewFinanceHandler(sm.Finance(), logger),
		scheduleHandler:    NewScheduleHandler(sm.Schedule(), logger),
		teacherAreaHandler: NewTeacherAreaHandler(sm.TeacherArea(), logger),
		logHandler:         NewLogHandler(sm.Log(), logger),
		auth:               sm.Auth(),
	}
}

// SetupRoutes wires every route behind the access gate. The gate classifies
// paths itself, so public routes pass through untouched while protected ones
// require the auth cookie; per-group role checks narrow access further.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.Use(AccessGate(hm.auth))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy", "service": "crm-service"})
	})

	// Public inquiry form
	router.POST("/lead", hm.leadHandler.CreateLead)

	auth := router.Group("/auth")
	{
		auth.POST("/login", hm.authHandler.Login)
		auth.POST("/logout", hm.authHandler.Logout)
	}

	// Admin-area API: any authenticated staff role; sensitive groups narrowed
	// below.
	v1 := router.Group("/api/v1")
	{
		v1.GET("/me", hm.authHandler.Me)

		adminOnly := RequireRole(models.RoleAdmin, models.RoleSuperAdmin)

		users := v1.Group("/users", adminOnly)
		{
			users.POST("", hm.userHandler.CreateUser)
			users.GET("", hm.userHandler.ListUsers)
			users.GET("/:id", hm.userHandler.GetUser)
			users.PUT("/:id", hm.userHandler.UpdateUser)
			users.DELETE("/:id", hm.userHandler.DeleteUser)
		}

		leads := v1.Group("/leads")
		{
			leads.GET("", hm.leadHandler.ListLeads)
			leads.GET("/:id", hm.leadHandler.GetLead)
			leads.PATCH("/:id/status", hm.leadHandler.ChangeStatus)
			leads.POST("/:id/convert", hm.leadHandler.ConvertLead)
			leads.POST("/:id/notes", hm.leadHandler.AddNote)
			leads.GET("/:id/notes", hm.leadHandler.GetNotes)
			leads.DELETE("/:id", hm.leadHandler.DeleteLead)
		}

		students := v1.Group("/students")
		{
			students.POST("", hm.studentHandler.CreateStudent)
			students.GET("", hm.studentHandler.ListStudents)
			students.GET("/:id", hm.studentHandler.GetStudent)
			students.PUT("/:id", hm.studentHandler.UpdateStudent)
			students.DELETE("/:id", hm.studentHandler.DeleteStudent)
			students.POST("/:id/adjust", hm.studentHandler.AdjustBalance)
		}

		payments := v1.Group("/payments")
		{
			payments.POST("", hm.paymentHandler.CreatePayment)
			payments.GET("", hm.paymentHandler.ListPayments)
			payments.GET("/:id", hm.paymentHandler.GetPayment)
			payments.PUT("/:id", hm.paymentHandler.UpdatePayment)
			payments.DELETE("/:id", hm.paymentHandler.DeletePayment)
		}

		expenses := v1.Group("/expenses")
		{
			expenses.POST("", hm.expenseHandler.CreateExpense)
			expenses.GET("", hm.expenseHandler.ListExpenses)
			expenses.PUT("/:id", hm.expenseHandler.UpdateExpense)
			expenses.DELETE("/:id", hm.expenseHandler.DeleteExpense)
		}

		finance := v1.Group("/finance")
		{
			finance.GET("/debtors", hm.financeHandler.ListDebtors)
			finance.GET("/summary", hm.financeHandler.GetSummary)
			finance.GET("/salary", hm.financeHandler.GetSalary)
		}

		courses := v1.Group("/courses")
		{
			courses.POST("", hm.scheduleHandler.CreateCourse)
			courses.GET("", hm.scheduleHandler.ListCourses)
			courses.PUT("/:id", hm.scheduleHandler.UpdateCourse)
			courses.DELETE("/:id", hm.scheduleHandler.DeleteCourse)
		}

		classrooms := v1.Group("/classrooms")
		{
			classrooms.POST("", hm.scheduleHandler.CreateClassroom)
			classrooms.GET("", hm.scheduleHandler.ListClassrooms)
			classrooms.PUT("/:id", hm.scheduleHandler.UpdateClassroom)
			classrooms.DELETE("/:id", hm.scheduleHandler.DeleteClassroom)
		}

		groups := v1.Group("/groups")
		{
			groups.POST("", hm.scheduleHandler.CreateGroup)
			groups.GET("", hm.scheduleHandler.ListGroups)
			groups.GET("/:id", hm.scheduleHandler.GetGroup)
			groups.PUT("/:id", hm.scheduleHandler.UpdateGroup)
			groups.DELETE("/:id", hm.scheduleHandler.DeleteGroup)
		}

		lessons := v1.Group("/lessons")
		{
			lessons.POST("", hm.scheduleHandler.CreateLesson)
			lessons.GET("", hm.scheduleHandler.ListLessons)
			lessons.DELETE("/:id", hm.scheduleHandler.DeleteLesson)
		}

		v1.GET("/logs", adminOnly, hm.logHandler.ListLogs)
	}

	// Teacher-area API: the gate already requires a teacher-capable role.
	teacher := router.Group("/teacher/api")
	{
		teacher.GET("/groups", hm.teacherAreaHandler.MyGroups)
		teacher.GET("/groups/:id/students", hm.teacherAreaHandler.GroupStudents)
		teacher.POST("/attendance", hm.teacherAreaHandler.SubmitAttendance)
		teacher.GET("/lessons/:id/attendance", hm.teacherAreaHandler.LessonAttendance)
		teacher.POST("/score", hm.teacherAreaHandler.ScoreBand)
	}
}
