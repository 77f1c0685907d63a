package sqlinline

const QInsertApplicant = `--sql 9c40aefe-753d-48b0-9a32-7662588844ac
insert into applicants(id, full_name, email, phone, program, stage, owner_id, source, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::text, $3::text, $4::text, $5::text, nullif($6::text, '')::uuid, $7::text, now(), now())
returning id, created_at;
`

const QSelectApplicantByID = `--sql 846025a9-d3de-4704-98b2-e9d26e71ea9a
select id, full_name, email, phone, program, stage, coalesce(owner_id::text, ''), source, created_at, updated_at
from applicants
where id = $1::uuid;
`

const QUpdateApplicant = `--sql 6b15aeae-b324-4d68-96ca-713e41082670
update applicants
set full_name = coalesce(nullif($2::text, ''), full_name),
    email = coalesce(nullif($3::text, ''), email),
    phone = coalesce(nullif($4::text, ''), phone),
    program = coalesce(nullif($5::text, ''), program),
    stage = coalesce(nullif($6::text, ''), stage),
    updated_at = now()
where id = $1::uuid
returning id, full_name, email, phone, program, stage, coalesce(owner_id::text, ''), source, created_at, updated_at;
`

const QDeleteApplicant = `--sql 9c994a69-d9a0-4452-ac9c-05b06985f6c4
delete from applicants
where id = $1::uuid;
`

const QListApplicants = `--sql bddf6a2f-b735-4ae6-8114-b64d6cbbfc39
select id, full_name, email, phone, program, stage, coalesce(owner_id::text, ''), source, created_at, updated_at
from applicants
where (nullif($1::text, '') is null or stage = $1::text)
  and (nullif($2::text, '') is null or full_name ilike '%' || $2::text || '%' or email ilike '%' || $2::text || '%')
order by created_at desc
limit $3::int offset $4::int;
`

const QCountApplicants = `--sql 7c1e8933-d8ae-445d-8d03-d29ba1821c57
select count(*)
from applicants
where (nullif($1::text, '') is null or stage = $1::text)
  and (nullif($2::text, '') is null or full_name ilike '%' || $2::text || '%' or email ilike '%' || $2::text || '%');
`
