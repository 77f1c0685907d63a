package sqlinline

const QInsertPayment = `--sql de2982df-6a86-4f0d-8a77-9ad0ce3b5ed4
insert into payments(id, order_id, applicant_id, amount_int, status, redirect_url, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::uuid, $3::bigint, $4::text, $5::text, now(), now())
returning id;
`

const QListPayments = `--sql 918fd77f-a966-4608-a65c-d5e14099cfce
select id, order_id, applicant_id, amount_int, status, redirect_url, created_at, updated_at
from payments
where (nullif($1::text, '') is null or applicant_id = nullif($1::text, '')::uuid)
order by created_at desc
limit $2::int;
`

const QUpdatePaymentStatusByOrderID = `--sql 2dbb8e67-934e-48ce-b4fe-abfda41a01b4
update payments
set status = $2::text, updated_at = now()
where order_id = $1::text
returning id;
`
