package usecase

import (
	"time"

	"github.com/cashflowgame/finance-service/internal/application/dto"
	"github.com/cashflowgame/finance-service/internal/domain/model"
)

func toDebtResponse(d model.Debt, now time.Time, withSchedule bool) dto.DebtResponse {
	resp := dto.DebtResponse{
		ID:                   d.ID(),
		PlayerID:             d.PlayerID(),
		Type:                 d.Type().String(),
		OriginalAmount:       d.OriginalAmount(),
		CurrentBalance:       d.CurrentBalance(),
		InterestRate:         d.InterestRate(),
		MonthlyPayment:       d.MonthlyPayment(),
		TermMonths:           d.TermMonths(),
		DueDate:              d.DueDate(),
		LastPaymentDate:      d.LastPaymentDate(),
		IsPaidOff:            d.IsPaidOff(),
		IsOverdue:            d.IsOverdue(now),
		Purpose:              d.Purpose(),
		CollateralRef:        d.CollateralRef(),
		RemainingInterest:    d.RemainingInterest(),
		PayoffTimelineMonths: d.PayoffTimelineMonths(),
		CreatedAt:            d.CreatedAt(),
		UpdatedAt:            d.UpdatedAt(),
	}
	if withSchedule {
		entries := model.GenerateAmortizationSchedule(d.OriginalAmount(), d.InterestRate(), d.TermMonths(), d.CreatedAt())
		resp.Schedule = make([]dto.AmortizationEntryResponse, 0, len(entries))
		for _, e := range entries {
			resp.Schedule = append(resp.Schedule, dto.AmortizationEntryResponse{
				Period:           e.Period,
				DueDate:          e.DueDate,
				Principal:        e.Principal,
				Interest:         e.Interest,
				Total:            e.Total,
				RemainingBalance: e.RemainingBalance,
			})
		}
	}
	return resp
}

func toCreditScoreResponse(s model.CreditScore) dto.CreditScoreResponse {
	factors := make([]dto.CreditFactorResponse, 0, len(s.Factors))
	for _, f := range s.Factors {
		factors = append(factors, dto.CreditFactorResponse{
			Category:    f.Category.String(),
			Label:       f.Label,
			Weight:      f.Weight(),
			Impact:      f.Impact.String(),
			Adjustment:  f.Adjustment,
			Description: f.Description,
		})
	}
	return dto.CreditScoreResponse{
		PlayerID:     s.PlayerID,
		Score:        s.Score,
		Rating:       s.Rating.String(),
		Factors:      factors,
		Tips:         append([]string(nil), s.Tips...),
		CalculatedAt: s.CalculatedAt,
	}
}

func toDebtSummaryResponse(s model.DebtSummary) *dto.DebtSummaryResponse {
	resp := &dto.DebtSummaryResponse{
		PlayerID:               s.PlayerID,
		TotalDebt:              s.TotalDebt,
		TotalMonthlyPayments:   s.TotalMonthlyPayments,
		AverageInterestRate:    s.AverageInterestRate,
		DebtToIncomeRatio:      s.DebtToIncomeRatio,
		PayoffTimelineMonths:   s.PayoffTimelineMonths,
		TotalRemainingInterest: s.TotalRemainingInterest,
		ActiveDebtCount:        s.ActiveDebtCount,
		Breakdown:              make([]dto.TypeBreakdownResponse, 0, len(s.Breakdown)),
		UpcomingPayments:       make([]dto.UpcomingPaymentResponse, 0, len(s.UpcomingPayments)),
		Recommendations:        make([]dto.RecommendationResponse, 0, len(s.Recommendations)),
	}
	for _, b := range s.Breakdown {
		resp.Breakdown = append(resp.Breakdown, dto.TypeBreakdownResponse{
			Type:                b.Type.String(),
			Count:               b.Count,
			TotalBalance:        b.TotalBalance,
			TotalMonthlyPayment: b.TotalMonthlyPayment,
			AverageRate:         b.AverageRate,
			PercentOfTotal:      b.PercentOfTotal,
		})
	}
	for _, u := range s.UpcomingPayments {
		resp.UpcomingPayments = append(resp.UpcomingPayments, dto.UpcomingPaymentResponse{
			DebtID:       u.DebtID,
			Type:         u.Type.String(),
			Amount:       u.Amount,
			DueDate:      u.DueDate,
			DaysUntilDue: u.DaysUntilDue,
			IsOverdue:    u.IsOverdue,
		})
	}
	for _, r := range s.Recommendations {
		resp.Recommendations = append(resp.Recommendations, dto.RecommendationResponse{
			Kind:             string(r.Kind),
			Title:            r.Title,
			Description:      r.Description,
			EstimatedSavings: r.EstimatedSavings,
		})
	}
	return resp
}

func toStrategyResultResponse(r model.StrategyResult) dto.StrategyResultResponse {
	steps := make([]dto.StrategyStepResponse, 0, len(r.Steps))
	for _, s := range r.Steps {
		steps = append(steps, dto.StrategyStepResponse{
			Order:          s.Order,
			DebtID:         s.DebtID,
			Type:           s.Type,
			Balance:        s.Balance,
			InterestRate:   s.InterestRate,
			MonthlyPayment: s.MonthlyPayment,
			PaidOffMonth:   s.PaidOffMonth,
		})
	}
	return dto.StrategyResultResponse{
		Name:          string(r.Name),
		Steps:         steps,
		TotalMonths:   r.TotalMonths,
		TotalInterest: r.TotalInterest,
	}
}

func toPayoffStrategyResponse(c model.StrategyComparison) dto.PayoffStrategyResponse {
	return dto.PayoffStrategyResponse{
		PlayerID:        c.PlayerID,
		Snowball:        toStrategyResultResponse(c.Snowball),
		Avalanche:       toStrategyResultResponse(c.Avalanche),
		Recommended:     string(c.Recommended),
		InterestSavings: c.InterestSavings,
		Explanation:     c.Explanation,
	}
}

func toPlayerStateResponse(s model.PlayerState) dto.PlayerStateResponse {
	return dto.PlayerStateResponse{
		PlayerID:        s.PlayerID,
		SessionID:       s.SessionID,
		CareerName:      s.CareerName,
		Cash:            s.Cash,
		Savings:         s.Savings,
		Salary:          s.Salary,
		PassiveIncome:   s.PassiveIncome,
		AssetValue:      s.AssetValue,
		AssetCashFlow:   s.AssetCashFlow,
		TotalDebt:       s.TotalDebt,
		DebtPayments:    s.DebtPayments,
		CareerExpenses:  s.CareerExpenses,
		NetWorth:        s.NetWorth,
		MonthlyCashFlow: s.MonthlyCashFlow,
		ActiveDebtCount: s.ActiveDebtCount,
	}
}

func toWinConditionResponse(w model.PlayerWinCondition) dto.WinConditionResponse {
	return dto.WinConditionResponse{
		PlayerID:         w.PlayerID,
		HasWon:           w.HasWon,
		FinancialFreedom: w.FinancialFreedom,
		GoalAchieved:     w.GoalAchieved,
		NetWorth:         w.NetWorth,
		MonthlyCashFlow:  w.MonthlyCashFlow,
		NetWorthTarget:   w.NetWorthTarget,
		CashFlowTarget:   w.CashFlowTarget,
		NetWorthProgress: w.NetWorthProgress,
		CashFlowProgress: w.CashFlowProgress,
	}
}
